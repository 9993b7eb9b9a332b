package handler

import (
	"net/http"

	"github.com/itchan-dev/msgboard/shared/api"
	"github.com/itchan-dev/msgboard/shared/utils"
)

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	var body api.CreateReplyRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	thread, err := h.reply.Create(r.Context(), body.ThreadId, body.Text, body.DeletePassword)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.NewThreadResponse(thread, true, 0))
}

func (h *Handler) GetReplies(w http.ResponseWriter, r *http.Request) {
	query := api.GetRepliesRequest{ThreadId: r.URL.Query().Get("thread_id")}
	if err := utils.Validate(&query); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	thread, err := h.reply.Get(r.Context(), query.ThreadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.NewThreadResponse(thread, true, 0))
}

func (h *Handler) ReportReply(w http.ResponseWriter, r *http.Request) {
	var body api.ReportReplyRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.reply.Report(r.Context(), body.ThreadId, body.ReplyId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteText(w, api.Reported)
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	var body api.DeleteReplyRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	outcome, err := h.reply.Delete(r.Context(), body.ThreadId, body.ReplyId, body.DeletePassword)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeDeleteOutcome(w, outcome)
}
