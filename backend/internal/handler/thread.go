package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/msgboard/shared/api"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/utils"
)

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")
	var body api.CreateThreadRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	thread, err := h.thread.Create(r.Context(), board, body.Text, body.DeletePassword)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.NewThreadResponse(thread, true, 0))
}

func (h *Handler) GetThreads(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	threads, err := h.thread.List(r.Context(), board)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.NewThreadListResponse(threads, h.previewReplies()))
}

func (h *Handler) ReportThread(w http.ResponseWriter, r *http.Request) {
	var body api.ReportThreadRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.thread.Report(r.Context(), body.ThreadId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteText(w, api.Reported)
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")
	var body api.DeleteThreadRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	outcome, err := h.thread.Delete(r.Context(), board, body.ThreadId, body.DeletePassword)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeDeleteOutcome(w, outcome)
}

// writeDeleteOutcome answers IncorrectPassword for missing records as well.
func writeDeleteOutcome(w http.ResponseWriter, outcome domain.DeleteOutcome) {
	if outcome == domain.DeleteSuccess {
		utils.WriteText(w, api.Success)
		return
	}
	utils.WriteText(w, api.IncorrectPassword)
}
