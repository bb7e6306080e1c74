package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/donationswap/api/internal/domain"
	"github.com/donationswap/api/internal/pkg/id"
)

type SendMessageRequest struct {
	RecipientID string             `json:"recipient_id" validate:"required"`
	Kind        domain.MessageKind `json:"kind" validate:"required"`
	Text        string             `json:"text"`
	ImageURL    string             `json:"image_url"`
}

type MessageStore interface {
	Put(ctx context.Context, m *domain.Message) error
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Message, error)
}

type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type PushSender interface {
	Push(ctx context.Context, endpointARN, title, body string) error
}

type Service interface {
	Send(ctx context.Context, senderID string, req SendMessageRequest) (*domain.Message, error)
	Inbox(ctx context.Context, userID string) ([]domain.Message, error)
}

type service struct {
	messages MessageStore
	users    UserStore
	push     PushSender
}

func NewService(messages MessageStore, users UserStore, push PushSender) Service {
	return &service{messages: messages, users: users, push: push}
}

// Send persists a chat message and dispatches a push notification to the
// recipient. Push delivery is best-effort: the message is the source of
// truth, so a failed push is logged, not returned.
func (s *service) Send(ctx context.Context, senderID string, req SendMessageRequest) (*domain.Message, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("unknown message kind %q: %w", req.Kind, domain.ErrBadRequest)
	}
	switch req.Kind {
	case domain.MessageText, domain.MessageSystem:
		if req.Text == "" {
			return nil, fmt.Errorf("text required for %s message: %w", req.Kind, domain.ErrBadRequest)
		}
	case domain.MessageImage:
		if req.ImageURL == "" {
			return nil, fmt.Errorf("image_url required for image message: %w", domain.ErrBadRequest)
		}
	}

	recipient, err := s.users.Get(ctx, req.RecipientID)
	if err != nil {
		return nil, err
	}

	m := &domain.Message{
		MessageID:   id.New(),
		SenderID:    senderID,
		RecipientID: recipient.UserID,
		Kind:        req.Kind,
		Text:        req.Text,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.messages.Put(ctx, m); err != nil {
		return nil, err
	}

	if s.push != nil && recipient.PushEndpointARN != "" {
		preview := m.Text
		if m.Kind == domain.MessageImage {
			preview = "Sent you an image"
		}
		if err := s.push.Push(ctx, recipient.PushEndpointARN, "New message", preview); err != nil {
			slog.Warn("push dispatch failed", "message_id", m.MessageID, "recipient_id", recipient.UserID, "err", err)
		}
	}
	return m, nil
}

func (s *service) Inbox(ctx context.Context, userID string) ([]domain.Message, error) {
	return s.messages.ListByRecipient(ctx, userID)
}
