package handler

import (
	"encoding/json"
	"net/http"

	"github.com/donationswap/api/internal/application/review"
	"github.com/donationswap/api/internal/pkg/validate"
	"github.com/donationswap/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// ReviewHandler handles admin review decisions on identity verifications.
type ReviewHandler struct {
	svc review.Service
}

func NewReviewHandler(svc review.Service) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) Review(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req review.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.svc.Review(r.Context(), claims.UserID, chi.URLParam(r, "uid"), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OKEnvelope{OK: true})
}
