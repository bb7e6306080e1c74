package handler

import (
	"encoding/json"
	"net/http"

	"github.com/donationswap/api/internal/application/rating"
	"github.com/donationswap/api/internal/pkg/validate"
	"github.com/donationswap/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// RatingHandler handles rating writes for a rated user.
type RatingHandler struct {
	svc rating.Service
}

func NewRatingHandler(svc rating.Service) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// Rate writes the caller's rating for the user in the URL.
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req rating.RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.svc.Rate(r.Context(), chi.URLParam(r, "id"), claims.UserID, req.Value); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OKEnvelope{OK: true})
}

// Unrate removes the caller's rating for the user in the URL, if any.
func (h *RatingHandler) Unrate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.svc.Unrate(r.Context(), chi.URLParam(r, "id"), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OKEnvelope{OK: true})
}
