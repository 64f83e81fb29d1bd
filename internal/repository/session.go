package repository

import (
	"context"
	"time"

	"github.com/larabeech/guestgate/internal/domain"
)

type CreateSessionInput struct {
	GuestID   string
	TokenHash string
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
}

type SessionRepository interface {
	Create(ctx context.Context, in CreateSessionInput) (*domain.GuestSession, error)
	// FindValid returns the session for the hash only while
	// expires_at is in the future; otherwise domain.ErrSessionInvalid.
	FindValid(ctx context.Context, tokenHash string) (*domain.GuestSession, error)
	DeleteByHash(ctx context.Context, tokenHash string) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
