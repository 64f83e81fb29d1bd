package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/repository"
)

type SettingsUsecase struct {
	settings repository.SettingsRepository
	guests   repository.GuestRepository
	audit    *Auditor
	logger   *slog.Logger
}

func NewSettingsUsecase(settings repository.SettingsRepository, guests repository.GuestRepository, audit *Auditor, logger *slog.Logger) *SettingsUsecase {
	return &SettingsUsecase{
		settings: settings,
		guests:   guests,
		audit:    audit,
		logger:   logger.With("component", "settings_usecase"),
	}
}

func (u *SettingsUsecase) DefaultAuthMethod(ctx context.Context) (domain.AuthMethod, error) {
	settings, err := u.settings.Load(ctx)
	if err != nil {
		return "", err
	}
	return settings.DefaultAuthMethod, nil
}

// UpdateDefaultAuthMethod sets the system-wide default and, when asked,
// rewrites every guest whose stored method differs. Returns the number
// of guests rewritten.
func (u *SettingsUsecase) UpdateDefaultAuthMethod(ctx context.Context, method domain.AuthMethod, updateExistingGuests bool) (int64, error) {
	if !method.Valid() {
		return 0, domain.ErrInvalidAuthMethod
	}

	if err := u.settings.SetDefaultAuthMethod(ctx, method); err != nil {
		return 0, fmt.Errorf("update default auth method: %w", err)
	}

	var updated int64
	if updateExistingGuests {
		var err error
		updated, err = u.guests.SetAuthMethodForAll(ctx, method)
		if err != nil {
			return 0, fmt.Errorf("update existing guests: %w", err)
		}
	}

	u.audit.Record(ctx, domain.AuditEvent{
		Action:  domain.AuditDefaultMethodChanged,
		Method:  &method,
		Success: true,
		Details: fmt.Sprintf("updated_guests=%d", updated),
	})

	u.logger.InfoContext(ctx, "default auth method updated",
		"method", method, "updated_guests", updated)
	return updated, nil
}
