package rating

import (
	"context"
	"fmt"
	"time"

	"github.com/donationswap/api/internal/domain"
)

type RateRequest struct {
	Value float64 `json:"value" validate:"gte=0,lte=5"`
}

// RatingStore is the slice of the rating-record store this service needs.
// Writes report the previous record so the fold sees the full transition.
type RatingStore interface {
	Put(ctx context.Context, r *domain.Rating) (before *domain.Rating, err error)
	Delete(ctx context.Context, ratedUserID, raterUserID string) (before *domain.Rating, err error)
}

// AggregateStore applies a rating delta to the rated user's aggregate.
// The implementation owns conflict retry; Apply is called exactly once per
// transition.
type AggregateStore interface {
	ApplyRatingDelta(ctx context.Context, userID string, d domain.RatingDelta) error
}

type Service interface {
	Rate(ctx context.Context, ratedUserID, raterUserID string, value float64) error
	Unrate(ctx context.Context, ratedUserID, raterUserID string) error
	// Apply folds an observed (before, after) transition into the aggregate.
	Apply(ctx context.Context, ratedUserID string, before, after *domain.Rating) error
}

type service struct {
	ratings    RatingStore
	aggregates AggregateStore
}

func NewService(ratings RatingStore, aggregates AggregateStore) Service {
	return &service{ratings: ratings, aggregates: aggregates}
}

// Rate writes (creates or replaces) the rater's score for ratedUserID and
// folds the resulting transition into the aggregate.
func (s *service) Rate(ctx context.Context, ratedUserID, raterUserID string, value float64) error {
	if ratedUserID == "" || raterUserID == "" {
		return fmt.Errorf("missing user ids: %w", domain.ErrBadRequest)
	}
	if ratedUserID == raterUserID {
		return fmt.Errorf("cannot rate yourself: %w", domain.ErrBadRequest)
	}
	if value < 0 {
		return fmt.Errorf("rating value must be non-negative: %w", domain.ErrBadRequest)
	}

	now := time.Now().UTC()
	after := &domain.Rating{
		RatedUserID: ratedUserID,
		RaterUserID: raterUserID,
		Value:       value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	before, err := s.ratings.Put(ctx, after)
	if err != nil {
		return err
	}
	if before != nil {
		after.CreatedAt = before.CreatedAt
	}
	return s.Apply(ctx, ratedUserID, before, after)
}

// Unrate removes the rater's score, if any, and folds the deletion into the
// aggregate. Deleting an absent rating is a no-op.
func (s *service) Unrate(ctx context.Context, ratedUserID, raterUserID string) error {
	if ratedUserID == "" || raterUserID == "" {
		return fmt.Errorf("missing user ids: %w", domain.ErrBadRequest)
	}
	before, err := s.ratings.Delete(ctx, ratedUserID, raterUserID)
	if err != nil {
		return err
	}
	return s.Apply(ctx, ratedUserID, before, nil)
}

func (s *service) Apply(ctx context.Context, ratedUserID string, before, after *domain.Rating) error {
	d := domain.DeltaFor(before, after)
	if d.IsZero() {
		return nil
	}
	return s.aggregates.ApplyRatingDelta(ctx, ratedUserID, d)
}
