package handler

import (
	"encoding/json"
	"net/http"

	"github.com/donationswap/api/internal/application/chat"
	"github.com/donationswap/api/internal/domain"
	"github.com/donationswap/api/internal/pkg/validate"
	"github.com/donationswap/api/internal/transport/http/middleware"
)

// MessageEnvelopeOne wraps a single created message.
type MessageEnvelopeOne struct {
	Message *domain.Message `json:"message"`
}

// InboxEnvelope wraps the caller's received messages.
type InboxEnvelope struct {
	Data []domain.Message `json:"data"`
}

// MessageHandler handles chat message endpoints.
type MessageHandler struct {
	svc chat.Service
}

func NewMessageHandler(svc chat.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req chat.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	m, err := h.svc.Send(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelopeOne{Message: m})
}

func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	msgs, err := h.svc.Inbox(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InboxEnvelope{Data: msgs})
}
