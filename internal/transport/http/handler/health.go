package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// HealthHandler handles health-check and clock endpoints.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	if action == "ping" {
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
		return
	}
	writeError(w, http.StatusBadRequest, "unknown action")
}

// ServerNow reports the server clock in epoch milliseconds so clients can
// correct local skew before judging code or token expiry.
func (h *HealthHandler) ServerNow(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, NowEnvelope{Now: time.Now().UnixMilli()})
}
