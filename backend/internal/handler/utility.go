package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/msgboard/shared/api"
	"github.com/itchan-dev/msgboard/shared/logger"
	mw "github.com/itchan-dev/msgboard/shared/middleware"
	"github.com/itchan-dev/msgboard/shared/utils"
)

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	utils.WriteText(w, "pong")
}

// AppInfo echoes the response headers set by the middleware chain.
func (h *Handler) AppInfo(w http.ResponseWriter, r *http.Request) {
	headers := make(map[string]string, len(w.Header()))
	for k, v := range w.Header() {
		headers[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	writeJSON(w, api.AppInfoResponse{Headers: headers})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("Not Found"))
}

func (h *Handler) GetTests(tester SelfTester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := tester.Run(r.Context())
		if err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		writeJSON(w, report)
	}
}

// ReportedThreads lists reported content of a board for moderators.
func (h *Handler) ReportedThreads(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	threads, err := h.thread.ListReported(r.Context(), board)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	resp := make([]api.ReportedThreadResponse, 0, len(threads))
	for _, t := range threads {
		resp = append(resp, api.NewReportedThreadResponse(t))
	}
	log := logger.ForRequest(r)
	if user := mw.GetUserFromContext(r); user != nil {
		log = log.With("moderator_id", user.Id)
	}
	log.Info("reported threads listed", "board", board, "count", len(resp))
	writeJSON(w, resp)
}
