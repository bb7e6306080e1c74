package handler

import (
	"net/http"

	"github.com/donationswap/api/internal/application/cleanup"
)

// CleanupHandler exposes the on-demand sweep trigger.
type CleanupHandler struct {
	svc cleanup.Service
}

func NewCleanupHandler(svc cleanup.Service) *CleanupHandler {
	return &CleanupHandler{svc: svc}
}

// Run executes all sweep passes synchronously. The response is plain text;
// the caller only learns success or failure, never which pass broke.
func (h *CleanupHandler) Run(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.svc.SweepAll(r.Context()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("cleanup failed"))
		return
	}
	_, _ = w.Write([]byte("OK: cleaned"))
}
