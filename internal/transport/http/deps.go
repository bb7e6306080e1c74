package http

import (
	"context"
	"time"

	"github.com/donationswap/api/internal/domain"
)

// OTPRepository is the minimal interface the router requires from the OTP store.
type OTPRepository interface {
	UpsertRequest(ctx context.Context, email string) error
	AppendCode(ctx context.Context, c *domain.OTPCode) error
	FindUnusedByDigest(ctx context.Context, email, digest string) (*domain.OTPCode, error)
	Consume(ctx context.Context, email, codeID string, at time.Time) error
}

// TokenRepository is the minimal interface the router requires from the
// reset-token store.
type TokenRepository interface {
	Put(ctx context.Context, t *domain.ResetToken) error
	Get(ctx context.Context, token string) (*domain.ResetToken, error)
	MarkUsed(ctx context.Context, token string, at time.Time) error
}

// UserRepository is the minimal interface the router requires from the user store.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SetPasswordHash(ctx context.Context, userID, hash string) error
	ApplyRatingDelta(ctx context.Context, userID string, d domain.RatingDelta) error
}

// RatingRepository is the minimal interface the router requires from the
// rating store. Writes report the displaced record.
type RatingRepository interface {
	Put(ctx context.Context, r *domain.Rating) (*domain.Rating, error)
	Delete(ctx context.Context, ratedUserID, raterUserID string) (*domain.Rating, error)
}

// MessageRepository is the minimal interface the router requires from the
// message store.
type MessageRepository interface {
	Put(ctx context.Context, m *domain.Message) error
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Message, error)
}

// PostRepository is the minimal interface the router requires from the post store.
type PostRepository interface {
	Put(ctx context.Context, p *domain.Post) error
	Get(ctx context.Context, postID string) (*domain.Post, error)
}

// VerificationRepository is the minimal interface the router requires from
// the verification store.
type VerificationRepository interface {
	Get(ctx context.Context, userID string) (*domain.Verification, error)
	SetReview(ctx context.Context, userID, status, reason, reviewerID string, at time.Time) error
}

// AuditRepository is the minimal interface the router requires from the
// audit-log store.
type AuditRepository interface {
	Put(ctx context.Context, e *domain.AuditEntry) error
}

// SweepRepository is the minimal interface the router requires from the
// expiry sweeper's store.
type SweepRepository interface {
	SweepExpiredPosts(ctx context.Context, now time.Time) (int, error)
	SweepExpiredCodes(ctx context.Context, now time.Time) (int, error)
	SweepStaleTokens(ctx context.Context, now time.Time, usedRetention time.Duration) (int, error)
}
