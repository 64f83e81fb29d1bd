package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/usecase"
)

func newSettingsUsecase(settings *fakeSettingsRepo, guests *fakeGuestRepo, audit *fakeAuditRepo) *usecase.SettingsUsecase {
	logger := slog.Default()
	return usecase.NewSettingsUsecase(settings, guests, usecase.NewAuditor(audit, logger), logger)
}

func TestUpdateDefaultAuthMethod_RejectsUnknownMethod(t *testing.T) {
	stored := false
	settings := &fakeSettingsRepo{
		setDefaultAuthMethod: func(context.Context, domain.AuthMethod) error {
			stored = true
			return nil
		},
	}

	_, err := newSettingsUsecase(settings, &fakeGuestRepo{}, &fakeAuditRepo{}).
		UpdateDefaultAuthMethod(context.Background(), domain.AuthMethod("password"), false)
	if !errors.Is(err, domain.ErrInvalidAuthMethod) {
		t.Errorf("want ErrInvalidAuthMethod, got %v", err)
	}
	if stored {
		t.Error("invalid method reached the settings store")
	}
}

func TestUpdateDefaultAuthMethod_WithoutGuestRewrite(t *testing.T) {
	var storedMethod domain.AuthMethod
	settings := &fakeSettingsRepo{
		setDefaultAuthMethod: func(_ context.Context, method domain.AuthMethod) error {
			storedMethod = method
			return nil
		},
	}
	guests := &fakeGuestRepo{
		setAuthMethodForAll: func(context.Context, domain.AuthMethod) (int64, error) {
			t.Fatal("guests were rewritten without being asked")
			return 0, nil
		},
	}

	updated, err := newSettingsUsecase(settings, guests, &fakeAuditRepo{}).
		UpdateDefaultAuthMethod(context.Background(), domain.AuthMethodMagicLink, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 0 {
		t.Errorf("updated = %d, want 0", updated)
	}
	if storedMethod != domain.AuthMethodMagicLink {
		t.Errorf("stored method = %q, want magic_link", storedMethod)
	}
}

func TestUpdateDefaultAuthMethod_RewritesExistingGuests(t *testing.T) {
	settings := &fakeSettingsRepo{
		setDefaultAuthMethod: func(context.Context, domain.AuthMethod) error { return nil },
	}
	guests := &fakeGuestRepo{
		setAuthMethodForAll: func(_ context.Context, method domain.AuthMethod) (int64, error) {
			if method != domain.AuthMethodEmailMatching {
				t.Errorf("rewrite method = %q, want email_matching", method)
			}
			return 42, nil
		},
	}

	updated, err := newSettingsUsecase(settings, guests, &fakeAuditRepo{}).
		UpdateDefaultAuthMethod(context.Background(), domain.AuthMethodEmailMatching, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 42 {
		t.Errorf("updated = %d, want 42", updated)
	}
}

func TestDefaultAuthMethod_ReadsSettings(t *testing.T) {
	settings := &fakeSettingsRepo{
		load: func(context.Context) (domain.Settings, error) {
			return domain.Settings{DefaultAuthMethod: domain.AuthMethodMagicLink}, nil
		},
	}

	method, err := newSettingsUsecase(settings, &fakeGuestRepo{}, &fakeAuditRepo{}).
		DefaultAuthMethod(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != domain.AuthMethodMagicLink {
		t.Errorf("method = %q, want magic_link", method)
	}
}
