package repository

import (
	"context"
	"time"

	"github.com/larabeech/guestgate/internal/domain"
)

type CreateTokenInput struct {
	GuestID   string
	TokenHash string
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
}

type TokenRepository interface {
	// Create inserts a new token row. A hash collision violates the
	// unique constraint and returns domain.ErrTokenCollision so the
	// caller can retry with fresh randomness.
	Create(ctx context.Context, in CreateTokenInput) (*domain.MagicLinkToken, error)
	// Claim atomically consumes the token identified by hash: a single
	// conditional update guarded by used = false and expires_at in the
	// future. Exactly one concurrent caller can win; everyone else gets
	// domain.ErrTokenInvalid. Never implemented as read-then-write.
	Claim(ctx context.Context, tokenHash string) (*domain.MagicLinkToken, error)
	// DeleteExpiredBefore removes tokens whose expiry is older than the
	// cutoff, used or not, returning the number deleted.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
