package handler

import (
	"encoding/json"
	"net/http"

	"github.com/donationswap/api/internal/application/post"
	"github.com/donationswap/api/internal/domain"
	"github.com/donationswap/api/internal/pkg/validate"
	"github.com/donationswap/api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// PostEnvelope wraps a single listing.
type PostEnvelope struct {
	Post *domain.Post `json:"post"`
}

// PostHandler handles listing endpoints.
type PostHandler struct {
	svc post.Service
}

func NewPostHandler(svc post.Service) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req post.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, PostEnvelope{Post: p})
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PostEnvelope{Post: p})
}
