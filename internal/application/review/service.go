package review

import (
	"context"
	"fmt"
	"time"

	"github.com/donationswap/api/internal/domain"
	"github.com/donationswap/api/internal/pkg/id"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type ReviewRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason"`
}

type VerificationStore interface {
	Get(ctx context.Context, userID string) (*domain.Verification, error)
	SetReview(ctx context.Context, userID, status, reason, reviewerID string, at time.Time) error
}

type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type AuditStore interface {
	Put(ctx context.Context, e *domain.AuditEntry) error
}

type Service interface {
	Review(ctx context.Context, actorID, targetUID string, req ReviewRequest) error
}

type service struct {
	verifications VerificationStore
	users         UserStore
	audit         AuditStore
}

func NewService(verifications VerificationStore, users UserStore, audit AuditStore) Service {
	return &service{verifications: verifications, users: users, audit: audit}
}

// Review applies an admin decision to a pending verification. The actor's
// admin role is re-checked against the store rather than trusted from the
// transport layer. Every decision leaves an audit entry.
func (s *service) Review(ctx context.Context, actorID, targetUID string, req ReviewRequest) error {
	if req.Action != ActionApprove && req.Action != ActionReject {
		return fmt.Errorf("unknown action %q: %w", req.Action, domain.ErrBadRequest)
	}

	actor, err := s.users.Get(ctx, actorID)
	if err != nil {
		return fmt.Errorf("actor lookup: %w", err)
	}
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required: %w", domain.ErrForbidden)
	}

	if _, err := s.verifications.Get(ctx, targetUID); err != nil {
		return err
	}

	status := domain.VerificationRejected
	if req.Action == ActionApprove {
		status = domain.VerificationApproved
	}

	now := time.Now().UTC()
	if err := s.verifications.SetReview(ctx, targetUID, status, req.Reason, actorID, now); err != nil {
		return err
	}
	if status == domain.VerificationApproved {
		if err := s.users.Update(ctx, targetUID, map[string]interface{}{"verified": true}); err != nil {
			return err
		}
	}

	return s.audit.Put(ctx, &domain.AuditEntry{
		AuditID:   id.New(),
		ActorID:   actorID,
		Action:    "verification." + req.Action,
		TargetID:  targetUID,
		Reason:    req.Reason,
		CreatedAt: now,
	})
}
