package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/larabeech/guestgate/internal/domain"
)

const defaultAuthMethodKey = "default_auth_method"

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

func (r *SettingsRepository) Load(ctx context.Context) (domain.Settings, error) {
	var value string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM system_settings WHERE key = $1`, defaultAuthMethodKey,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	method := domain.AuthMethod(value)
	if !method.Valid() {
		return domain.Settings{}, fmt.Errorf("load settings: %w: %q", domain.ErrInvalidAuthMethod, value)
	}
	return domain.Settings{DefaultAuthMethod: method}, nil
}

func (r *SettingsRepository) SetDefaultAuthMethod(ctx context.Context, method domain.AuthMethod) error {
	if !method.Valid() {
		return domain.ErrInvalidAuthMethod
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO system_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		defaultAuthMethodKey, string(method))
	if err != nil {
		return fmt.Errorf("set default auth method: %w", err)
	}
	return nil
}
