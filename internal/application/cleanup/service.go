package cleanup

import (
	"context"
	"log/slog"
	"time"
)

// usedTokenRetention is how long a consumed reset token is kept before the
// sweeper may remove it.
const usedTokenRetention = 24 * time.Hour

// Store is the sweep surface of the document store. Each method runs one
// complete pass: collect matching keys, then delete them in the store's
// bounded batches. Passes are idempotent and independently re-runnable.
type Store interface {
	SweepExpiredPosts(ctx context.Context, now time.Time) (int, error)
	SweepExpiredCodes(ctx context.Context, now time.Time) (int, error)
	SweepStaleTokens(ctx context.Context, now time.Time, usedRetention time.Duration) (int, error)
}

type Service interface {
	SweepPosts(ctx context.Context) error
	SweepOTPCodes(ctx context.Context) error
	SweepResetTokens(ctx context.Context) error
	// SweepAll runs all three passes synchronously and reports failure as a
	// whole; it does not expose partial-success detail.
	SweepAll(ctx context.Context) error
}

type service struct {
	store Store
}

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) SweepPosts(ctx context.Context) error {
	n, err := s.store.SweepExpiredPosts(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	slog.Info("deleted expired posts", "count", n)
	return nil
}

func (s *service) SweepOTPCodes(ctx context.Context) error {
	n, err := s.store.SweepExpiredCodes(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	slog.Info("deleted expired otp codes", "count", n)
	return nil
}

func (s *service) SweepResetTokens(ctx context.Context) error {
	n, err := s.store.SweepStaleTokens(ctx, time.Now().UTC(), usedTokenRetention)
	if err != nil {
		return err
	}
	slog.Info("deleted stale reset tokens", "count", n)
	return nil
}

func (s *service) SweepAll(ctx context.Context) error {
	for _, pass := range []func(context.Context) error{
		s.SweepPosts,
		s.SweepOTPCodes,
		s.SweepResetTokens,
	} {
		if err := pass(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Runner drives the sweep on a fixed interval until ctx is cancelled. Each
// family runs as its own unit of work: one pass failing never blocks the
// others.
type Runner struct {
	svc      Service
	interval time.Duration
}

func NewRunner(svc Service, interval time.Duration) *Runner {
	return &Runner{svc: svc, interval: interval}
}

func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	for name, pass := range map[string]func(context.Context) error{
		"posts":        r.svc.SweepPosts,
		"otp_codes":    r.svc.SweepOTPCodes,
		"reset_tokens": r.svc.SweepResetTokens,
	} {
		if err := pass(ctx); err != nil {
			slog.Warn("sweep pass failed", "family", name, "err", err)
		}
	}
}
