package usecase_test

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/repository"
	"github.com/larabeech/guestgate/internal/usecase"
)

func newSessionUsecase(sessions *fakeSessionRepo, audit *fakeAuditRepo) *usecase.SessionUsecase {
	logger := slog.Default()
	return usecase.NewSessionUsecase(sessions, usecase.NewAuditor(audit, logger), logger)
}

func TestSessionIssue_StoresHashWithFixedExpiry(t *testing.T) {
	var captured repository.CreateSessionInput
	sessions := &fakeSessionRepo{
		create: func(_ context.Context, in repository.CreateSessionInput) (*domain.GuestSession, error) {
			captured = in
			return &domain.GuestSession{ID: "session-1", GuestID: in.GuestID}, nil
		},
	}

	guest := testGuest(methodPtr(domain.AuthMethodEmailMatching))
	before := time.Now()
	rawToken, err := newSessionUsecase(sessions, &fakeAuditRepo{}).
		Issue(context.Background(), guest, domain.AuthMethodEmailMatching, testMeta)
	after := time.Now()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rawToken) != 64 {
		t.Errorf("raw token length = %d, want 64 hex chars", len(rawToken))
	}
	if want := fmt.Sprintf("%x", sha256.Sum256([]byte(rawToken))); captured.TokenHash != want {
		t.Errorf("stored hash %q != SHA-256 of returned token", captured.TokenHash)
	}
	if captured.GuestID != guest.ID {
		t.Errorf("guest id = %q, want %q", captured.GuestID, guest.ID)
	}
	if captured.ExpiresAt.Before(before.Add(domain.SessionTTL)) || captured.ExpiresAt.After(after.Add(domain.SessionTTL)) {
		t.Errorf("expiry %v is not ~24h from issuance", captured.ExpiresAt)
	}
}

func TestSessionIssue_AuditFailureDoesNotFailLogin(t *testing.T) {
	sessions := &fakeSessionRepo{
		create: func(_ context.Context, in repository.CreateSessionInput) (*domain.GuestSession, error) {
			return &domain.GuestSession{ID: "session-1", GuestID: in.GuestID}, nil
		},
	}
	audit := &fakeAuditRepo{
		append: func(context.Context, domain.AuditEvent) error {
			return errors.New("audit store down")
		},
	}

	guest := testGuest(methodPtr(domain.AuthMethodEmailMatching))
	if _, err := newSessionUsecase(sessions, audit).
		Issue(context.Background(), guest, domain.AuthMethodEmailMatching, testMeta); err != nil {
		t.Errorf("audit failure surfaced to caller: %v", err)
	}
}

func TestSessionIssue_StoreFailure_ReturnsErrSessionCreate(t *testing.T) {
	sessions := &fakeSessionRepo{
		create: func(context.Context, repository.CreateSessionInput) (*domain.GuestSession, error) {
			return nil, errors.New("db down")
		},
	}

	guest := testGuest(methodPtr(domain.AuthMethodEmailMatching))
	_, err := newSessionUsecase(sessions, &fakeAuditRepo{}).
		Issue(context.Background(), guest, domain.AuthMethodEmailMatching, testMeta)
	if !errors.Is(err, domain.ErrSessionCreate) {
		t.Errorf("want ErrSessionCreate, got %v", err)
	}
}

func TestSessionValidate_UnknownToken_ReturnsErrSessionInvalid(t *testing.T) {
	sessions := &fakeSessionRepo{
		findValid: func(context.Context, string) (*domain.GuestSession, error) {
			return nil, domain.ErrSessionInvalid
		},
	}

	_, err := newSessionUsecase(sessions, &fakeAuditRepo{}).
		Validate(context.Background(), rawTestToken)
	if !errors.Is(err, domain.ErrSessionInvalid) {
		t.Errorf("want ErrSessionInvalid, got %v", err)
	}
}

func TestSessionValidate_LooksUpByHash(t *testing.T) {
	wantHash := fmt.Sprintf("%x", sha256.Sum256([]byte(rawTestToken)))
	sessions := &fakeSessionRepo{
		findValid: func(_ context.Context, tokenHash string) (*domain.GuestSession, error) {
			if tokenHash != wantHash {
				return nil, domain.ErrSessionInvalid
			}
			return &domain.GuestSession{
				ID:        "session-1",
				GuestID:   "guest-1",
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}

	session, err := newSessionUsecase(sessions, &fakeAuditRepo{}).
		Validate(context.Background(), rawTestToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.GuestID != "guest-1" {
		t.Errorf("guest id = %q, want guest-1", session.GuestID)
	}
}

func TestSessionValidate_ExpiryBoundary(t *testing.T) {
	// One second either side of expiry: the store hands back whatever
	// row matches the hash; Validate itself must hold the boundary.
	cases := map[string]struct {
		expiresIn time.Duration
		wantValid bool
	}{
		"one second before expiry": {expiresIn: time.Second, wantValid: true},
		"one second after expiry":  {expiresIn: -time.Second, wantValid: false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sessions := &fakeSessionRepo{
				findValid: func(context.Context, string) (*domain.GuestSession, error) {
					return &domain.GuestSession{
						ID:        "session-1",
						GuestID:   "guest-1",
						ExpiresAt: time.Now().Add(tc.expiresIn),
					}, nil
				},
			}

			_, err := newSessionUsecase(sessions, &fakeAuditRepo{}).
				Validate(context.Background(), rawTestToken)
			if tc.wantValid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.wantValid && !errors.Is(err, domain.ErrSessionInvalid) {
				t.Errorf("want ErrSessionInvalid, got %v", err)
			}
		})
	}
}

func TestSessionLogout_UnknownTokenIsNotAnError(t *testing.T) {
	deleted := false
	sessions := &fakeSessionRepo{
		findValid: func(context.Context, string) (*domain.GuestSession, error) {
			return nil, domain.ErrSessionInvalid
		},
		deleteByHash: func(context.Context, string) error {
			deleted = true
			return nil
		},
	}

	if err := newSessionUsecase(sessions, &fakeAuditRepo{}).
		Logout(context.Background(), rawTestToken, testMeta); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("logout skipped the delete for an unknown token")
	}
}

func TestSessionLogout_RecordsAuditForLiveSession(t *testing.T) {
	var recorded []string
	sessions := &fakeSessionRepo{
		findValid: func(context.Context, string) (*domain.GuestSession, error) {
			return &domain.GuestSession{ID: "session-1", GuestID: "guest-1"}, nil
		},
		deleteByHash: func(context.Context, string) error { return nil },
	}
	audit := &fakeAuditRepo{
		append: func(_ context.Context, ev domain.AuditEvent) error {
			recorded = append(recorded, ev.Action)
			return nil
		},
	}

	if err := newSessionUsecase(sessions, audit).
		Logout(context.Background(), rawTestToken, testMeta); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recorded) != 1 || recorded[0] != domain.AuditGuestLogout {
		t.Errorf("audit actions = %v, want [%s]", recorded, domain.AuditGuestLogout)
	}
}
