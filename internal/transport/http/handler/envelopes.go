package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/donationswap/api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OKEnvelope acknowledges a state-changing call.
type OKEnvelope struct {
	OK bool `json:"ok"`
}

// TokenEnvelope carries the reset token minted by a successful verification.
type TokenEnvelope struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

// NowEnvelope carries the server clock in epoch milliseconds.
type NowEnvelope struct {
	Now int64 `json:"now"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps a domain error to its HTTP status. Unknown errors collapse
// to 500 without leaking internals.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, userMessage(err))
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, userMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, userMessage(err))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, userMessage(err))
	case errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusGone, userMessage(err))
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// userMessage strips the sentinel suffix (": bad request" etc.) that %w
// wrapping appends, leaving the caller-facing message.
func userMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{
		domain.ErrBadRequest, domain.ErrUnauthorized, domain.ErrForbidden,
		domain.ErrNotFound, domain.ErrConflict, domain.ErrExpired,
	} {
		suffix := ": " + sentinel.Error()
		if len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
			return msg[:len(msg)-len(suffix)]
		}
	}
	return msg
}
