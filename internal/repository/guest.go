package repository

import (
	"context"

	"github.com/larabeech/guestgate/internal/domain"
)

type CreateGuestInput struct {
	GroupID    string
	FirstName  string
	LastName   string
	Email      *string
	AuthMethod *domain.AuthMethod
}

type UpdateGuestInput struct {
	FirstName  *string
	LastName   *string
	Email      *string
	AuthMethod *domain.AuthMethod
}

type GuestRepository interface {
	Create(ctx context.Context, in CreateGuestInput) (*domain.Guest, error)
	Update(ctx context.Context, id string, in UpdateGuestInput) (*domain.Guest, error)
	// Delete removes the guest. Tokens and sessions cascade at the
	// database layer; no orphans survive.
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Guest, error)
	// FindByEmail matches the stored (lowercased) email exactly.
	FindByEmail(ctx context.Context, email string) (*domain.Guest, error)
	// SetAuthMethodForAll rewrites every guest whose method differs,
	// returning the number of rows changed.
	SetAuthMethodForAll(ctx context.Context, method domain.AuthMethod) (int64, error)
}
