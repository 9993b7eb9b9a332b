package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/itchan-dev/msgboard/backend/internal/selftest"
	"github.com/itchan-dev/msgboard/backend/internal/service"
	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/logger"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type SelfTester interface {
	Run(ctx context.Context) (selftest.Report, error)
}

type Handler struct {
	thread service.ThreadService
	reply  service.ReplyService
	health HealthChecker
	cfg    *config.Config
}

func New(thread service.ThreadService, reply service.ReplyService, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{thread, reply, health, cfg}
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(append(data, '\n'))
}

func (h *Handler) previewReplies() int {
	if h.cfg == nil || h.cfg.Public.RepliesPreview <= 0 {
		return config.Default().Public.RepliesPreview
	}
	return h.cfg.Public.RepliesPreview
}
