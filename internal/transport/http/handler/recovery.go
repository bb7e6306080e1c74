package handler

import (
	"encoding/json"
	"net/http"

	"github.com/donationswap/api/internal/application/recovery"
	"github.com/go-chi/chi/v5"
)

// RecoveryHandler handles the password recovery flow endpoints.
type RecoveryHandler struct {
	svc recovery.Service
}

func NewRecoveryHandler(svc recovery.Service) *RecoveryHandler {
	return &RecoveryHandler{svc: svc}
}

func (h *RecoveryHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "send-otp":
		var req recovery.SendOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.svc.SendOTP(r.Context(), req); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, OKEnvelope{OK: true})
	case "verify-otp":
		var req recovery.VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		token, err := h.svc.VerifyOTP(r.Context(), req)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, TokenEnvelope{OK: true, Token: token})
	case "reset-password":
		var req recovery.ResetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := h.svc.ResetPassword(r.Context(), req); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, OKEnvelope{OK: true})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
