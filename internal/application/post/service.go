package post

import (
	"context"
	"fmt"
	"time"

	"github.com/donationswap/api/internal/domain"
	"github.com/donationswap/api/internal/pkg/id"
)

type CreatePostRequest struct {
	Title string `json:"title" validate:"required"`
	// TTLHours bounds how long the listing stays visible before the sweeper
	// may remove it.
	TTLHours int `json:"ttl_hours" validate:"gte=1,lte=720"`
}

type Store interface {
	Put(ctx context.Context, p *domain.Post) error
	Get(ctx context.Context, postID string) (*domain.Post, error)
}

type Service interface {
	Create(ctx context.Context, userID string, req CreatePostRequest) (*domain.Post, error)
	Get(ctx context.Context, postID string) (*domain.Post, error)
}

type service struct {
	posts Store
}

func NewService(posts Store) Service {
	return &service{posts: posts}
}

func (s *service) Create(ctx context.Context, userID string, req CreatePostRequest) (*domain.Post, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title required: %w", domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	p := &domain.Post{
		PostID:    id.New(),
		UserID:    userID,
		Title:     req.Title,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(req.TTLHours) * time.Hour).Unix(),
	}
	if err := s.posts.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, postID string) (*domain.Post, error) {
	return s.posts.Get(ctx, postID)
}
