package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/metrics"
	"github.com/larabeech/guestgate/internal/repository"
)

type SessionUsecase struct {
	sessions repository.SessionRepository
	audit    *Auditor
	logger   *slog.Logger

	sessionTTL time.Duration
}

func NewSessionUsecase(sessions repository.SessionRepository, audit *Auditor, logger *slog.Logger) *SessionUsecase {
	return &SessionUsecase{
		sessions:   sessions,
		audit:      audit,
		logger:     logger.With("component", "session_usecase"),
		sessionTTL: domain.SessionTTL,
	}
}

// Issue creates a session for an already-authenticated guest and
// returns the raw cookie value. Expiry is a fixed offset from now;
// sessions are never extended. The audit write is best-effort.
func (u *SessionUsecase) Issue(ctx context.Context, guest *domain.Guest, method domain.AuthMethod, meta RequestMeta) (string, error) {
	rawToken, err := newOpaqueToken()
	if err != nil {
		return "", fmt.Errorf("%w: generate session token: %w", domain.ErrSessionCreate, err)
	}

	_, err = u.sessions.Create(ctx, repository.CreateSessionInput{
		GuestID:   guest.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(u.sessionTTL),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSessionCreate, err)
	}

	u.audit.Record(ctx, domain.AuditEvent{
		Action:    auditActionForLogin(method),
		GuestID:   &guest.ID,
		Email:     guest.Email,
		Method:    &method,
		Success:   true,
		IPAddress: meta.IPAddress,
	})
	metrics.SessionsIssued.WithLabelValues(string(method)).Inc()

	u.logger.InfoContext(ctx, "guest session issued", "guest_id", guest.ID, "method", method)
	return rawToken, nil
}

// Validate resolves a raw cookie value to its unexpired session. The
// store only returns unexpired rows; expiry is re-checked here against
// the application clock so a stale read can never pass.
func (u *SessionUsecase) Validate(ctx context.Context, rawToken string) (*domain.GuestSession, error) {
	session, err := u.sessions.FindValid(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrSessionInvalid) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, domain.ErrSessionInvalid
	}
	return session, nil
}

// Logout deletes the session row. Deleting an unknown or already
// expired token is not an error; logout is idempotent.
func (u *SessionUsecase) Logout(ctx context.Context, rawToken string, meta RequestMeta) error {
	tokenHash := hashToken(rawToken)

	session, err := u.sessions.FindValid(ctx, tokenHash)
	if err == nil {
		u.audit.Record(ctx, domain.AuditEvent{
			Action:    domain.AuditGuestLogout,
			GuestID:   &session.GuestID,
			Success:   true,
			IPAddress: meta.IPAddress,
		})
	}

	if err := u.sessions.DeleteByHash(ctx, tokenHash); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func auditActionForLogin(method domain.AuthMethod) string {
	if method == domain.AuthMethodMagicLink {
		return domain.AuditMagicLinkVerified
	}
	return domain.AuditEmailMatchLogin
}
