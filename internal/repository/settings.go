package repository

import (
	"context"

	"github.com/larabeech/guestgate/internal/domain"
)

type SettingsRepository interface {
	// Load returns the current settings snapshot, falling back to
	// domain.DefaultSettings when no row exists.
	Load(ctx context.Context) (domain.Settings, error)
	SetDefaultAuthMethod(ctx context.Context, method domain.AuthMethod) error
}
