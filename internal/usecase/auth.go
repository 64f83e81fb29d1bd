package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/email"
	"github.com/larabeech/guestgate/internal/metrics"
	"github.com/larabeech/guestgate/internal/repository"
)

// ErrEmailDelivery marks a magic-link request where the token was
// persisted but the email could not be sent. The token is deliberately
// not rolled back; the guest can request a fresh link.
var ErrEmailDelivery = errors.New("failed to deliver magic link email")

// tokenCreateAttempts bounds retries when a freshly generated token
// collides with an existing row. With 256 bits of entropy a single
// collision is already extraordinary.
const tokenCreateAttempts = 3

// RequestMeta carries per-request origin data recorded on tokens,
// sessions, and audit events.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type AuthUsecase struct {
	guests   repository.GuestRepository
	tokens   repository.TokenRepository
	settings repository.SettingsRepository
	sessions *SessionUsecase
	email    email.Sender
	audit    *Auditor
	logger   *slog.Logger

	tokenTTL      time.Duration
	magicLinkBase string
}

func NewAuthUsecase(
	guests repository.GuestRepository,
	tokens repository.TokenRepository,
	settings repository.SettingsRepository,
	sessions *SessionUsecase,
	emailSender email.Sender,
	audit *Auditor,
	logger *slog.Logger,
	magicLinkBase string,
) *AuthUsecase {
	return &AuthUsecase{
		guests:        guests,
		tokens:        tokens,
		settings:      settings,
		sessions:      sessions,
		email:         emailSender,
		audit:         audit,
		logger:        logger.With("component", "auth_usecase"),
		tokenTTL:      domain.TokenTTL,
		magicLinkBase: magicLinkBase,
	}
}

// RequestMagicLink issues a single-use token for the guest registered
// under the email and mails the verify link. The raw token is never
// stored; only its SHA-256 hash is. Callers must not reveal to the
// requester whether anything here succeeded.
func (u *AuthUsecase) RequestMagicLink(ctx context.Context, emailAddr string, meta RequestMeta) error {
	guest, err := u.guests.FindByEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("find guest: %w", err)
	}

	settings, err := u.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if guest.EffectiveAuthMethod(settings) != domain.AuthMethodMagicLink {
		return domain.ErrMethodMismatch
	}

	rawToken, token, err := u.createToken(ctx, guest.ID, meta)
	if err != nil {
		return err
	}

	u.audit.Record(ctx, domain.AuditEvent{
		Action:    domain.AuditMagicLinkRequested,
		GuestID:   &guest.ID,
		Email:     guest.Email,
		Method:    ptr(domain.AuthMethodMagicLink),
		Success:   true,
		IPAddress: meta.IPAddress,
	})
	metrics.MagicLinksIssued.Inc()

	link := u.magicLinkBase + "/guest-auth/magic-link/verify?token=" + rawToken
	if err := u.email.Send(ctx, *guest.Email, magicLinkSubject, magicLinkBody(guest.FirstName, link)); err != nil {
		// The token row stays valid: expiry will retire it, and the
		// caller needs to know delivery specifically failed.
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}

	u.logger.InfoContext(ctx, "magic link issued",
		"guest_id", guest.ID, "expires_at", token.ExpiresAt)
	return nil
}

// VerifyMagicLink consumes a raw token and, on success, opens a
// session for the token's guest. At most one concurrent verification
// of the same token can succeed; the losers get
// domain.ErrTokenInvalid, indistinguishable from a token that never
// existed or expired.
func (u *AuthUsecase) VerifyMagicLink(ctx context.Context, rawToken string, meta RequestMeta) (*domain.Guest, string, error) {
	tokenHash := hashToken(rawToken)

	token, err := u.tokens.Claim(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			u.audit.Record(ctx, domain.AuditEvent{
				Action:    domain.AuditMagicLinkRejected,
				Method:    ptr(domain.AuthMethodMagicLink),
				Success:   false,
				IPAddress: meta.IPAddress,
			})
			metrics.AuthFailures.WithLabelValues("magic_link").Inc()
			return nil, "", domain.ErrTokenInvalid
		}
		return nil, "", fmt.Errorf("claim token: %w", err)
	}

	guest, err := u.guests.FindByID(ctx, token.GuestID)
	if err != nil {
		return nil, "", fmt.Errorf("find guest: %w", err)
	}

	sessionToken, err := u.sessions.Issue(ctx, guest, domain.AuthMethodMagicLink, meta)
	if err != nil {
		return nil, "", err
	}
	return guest, sessionToken, nil
}

// EmailMatchLogin authenticates a guest by bare email match and opens
// a session. An unknown email and a known email configured for magic
// links fail identically with domain.ErrInvalidCredentials, so the
// response leaks neither registration status nor configured method.
func (u *AuthUsecase) EmailMatchLogin(ctx context.Context, emailAddr string, meta RequestMeta) (*domain.Guest, string, error) {
	settings, err := u.settings.Load(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load settings: %w", err)
	}

	guest, err := u.guests.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrGuestNotFound) {
			u.recordEmailMatchRejected(ctx, emailAddr, meta)
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find guest: %w", err)
	}

	if guest.EffectiveAuthMethod(settings) != domain.AuthMethodEmailMatching {
		u.recordEmailMatchRejected(ctx, emailAddr, meta)
		return nil, "", domain.ErrInvalidCredentials
	}

	sessionToken, err := u.sessions.Issue(ctx, guest, domain.AuthMethodEmailMatching, meta)
	if err != nil {
		return nil, "", err
	}
	return guest, sessionToken, nil
}

func (u *AuthUsecase) recordEmailMatchRejected(ctx context.Context, emailAddr string, meta RequestMeta) {
	u.audit.Record(ctx, domain.AuditEvent{
		Action:    domain.AuditEmailMatchRejected,
		Email:     &emailAddr,
		Method:    ptr(domain.AuthMethodEmailMatching),
		Success:   false,
		IPAddress: meta.IPAddress,
	})
	metrics.AuthFailures.WithLabelValues("email_matching").Inc()
}

// createToken generates a fresh 32-byte token, stores its hash, and
// returns both the raw value and the stored row. A unique-constraint
// collision retries with fresh randomness.
func (u *AuthUsecase) createToken(ctx context.Context, guestID string, meta RequestMeta) (string, *domain.MagicLinkToken, error) {
	for attempt := 0; attempt < tokenCreateAttempts; attempt++ {
		rawToken, err := newOpaqueToken()
		if err != nil {
			return "", nil, fmt.Errorf("generate token: %w", err)
		}

		token, err := u.tokens.Create(ctx, repository.CreateTokenInput{
			GuestID:   guestID,
			TokenHash: hashToken(rawToken),
			ExpiresAt: time.Now().Add(u.tokenTTL),
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		})
		if err != nil {
			if errors.Is(err, domain.ErrTokenCollision) {
				u.logger.WarnContext(ctx, "magic link token collision, retrying", "attempt", attempt+1)
				continue
			}
			return "", nil, fmt.Errorf("store magic token: %w", err)
		}
		return rawToken, token, nil
	}
	return "", nil, domain.ErrTokenCollision
}

// newOpaqueToken returns 32 bytes of crypto/rand as 64 hex characters.
func newOpaqueToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

func hashToken(rawToken string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(rawToken)))
}

func ptr[T any](v T) *T { return &v }
