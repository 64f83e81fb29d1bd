package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/transport/http/middleware"
	"github.com/larabeech/guestgate/internal/usecase"
)

// Raw magic-link tokens are 32 bytes hex-encoded. Anything else is
// rejected before touching the database.
var tokenFormat = regexp.MustCompile(`^[a-f0-9]{64}$`)

const sessionMaxAge = int(domain.SessionTTL / time.Second)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	RequestMagicLink(ctx context.Context, email string, meta usecase.RequestMeta) error
	VerifyMagicLink(ctx context.Context, rawToken string, meta usecase.RequestMeta) (*domain.Guest, string, error)
	EmailMatchLogin(ctx context.Context, email string, meta usecase.RequestMeta) (*domain.Guest, string, error)
}

type sessionUsecaser interface {
	Logout(ctx context.Context, rawToken string, meta usecase.RequestMeta) error
}

type guestGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Guest, error)
}

type AuthHandler struct {
	auth     authUsecaser
	sessions sessionUsecaser
	guests   guestGetter
	logger   *slog.Logger

	// secureCookies is false only in local dev, where there is no TLS.
	secureCookies bool
}

func NewAuthHandler(auth authUsecaser, sessions sessionUsecaser, guests guestGetter, logger *slog.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		sessions:      sessions,
		guests:        guests,
		logger:        logger.With("component", "auth_handler"),
		secureCookies: secureCookies,
	}
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type loginResponse struct {
	GuestID string `json:"guest_id"`
	GroupID string `json:"group_id"`
}

// POST /guest-auth/email-match
// Sets the session cookie on success. Unknown emails and guests
// configured for magic links get the same 401.
func (h *AuthHandler) EmailMatch(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(codeValidation, "Invalid email format"))
		return
	}

	guest, sessionToken, err := h.auth.EmailMatchLogin(c.Request.Context(), req.Email, h.meta(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, errBody(codeInvalidCredentials, errInvalidCredentials))
		case errors.Is(err, domain.ErrSessionCreate):
			h.logger.ErrorContext(c.Request.Context(), "email match session", "error", err)
			c.JSON(http.StatusInternalServerError, errBody(codeSessionError, errSessionCreate))
		default:
			h.logger.ErrorContext(c.Request.Context(), "email match login", "error", err)
			c.JSON(http.StatusInternalServerError, errBody(codeInternal, errInternalServer))
		}
		return
	}

	h.setSessionCookie(c, sessionToken)
	c.JSON(http.StatusOK, loginResponse{GuestID: guest.ID, GroupID: guest.GroupID})
}

// POST /guest-auth/magic-link/request
// Always returns 202 for well-formed emails so the response does not
// reveal whether the address is registered or which method it uses.
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errBody(codeValidation, "Invalid email format"))
		return
	}

	if err := h.auth.RequestMagicLink(c.Request.Context(), req.Email, h.meta(c)); err != nil {
		// Includes delivery failures: the token exists but the email did
		// not go out, which is worth a distinct log line.
		if errors.Is(err, usecase.ErrEmailDelivery) {
			h.logger.ErrorContext(c.Request.Context(), "magic link delivery failed", "error", err)
		} else {
			h.logger.WarnContext(c.Request.Context(), "magic link request rejected", "error", err)
		}
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "If the email is registered, a sign-in link is on its way."})
}

// GET /guest-auth/magic-link/verify?token=<64 hex chars>
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	rawToken := c.Query("token")
	if !tokenFormat.MatchString(rawToken) {
		c.JSON(http.StatusBadRequest, errBody(codeValidation, "Invalid token format"))
		return
	}

	guest, sessionToken, err := h.auth.VerifyMagicLink(c.Request.Context(), rawToken, h.meta(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusUnauthorized, errBody(codeInvalidToken, errInvalidToken))
		case errors.Is(err, domain.ErrSessionCreate):
			h.logger.ErrorContext(c.Request.Context(), "verify session", "error", err)
			c.JSON(http.StatusInternalServerError, errBody(codeSessionError, errSessionCreate))
		default:
			h.logger.ErrorContext(c.Request.Context(), "verify magic link", "error", err)
			c.JSON(http.StatusInternalServerError, errBody(codeInternal, errInternalServer))
		}
		return
	}

	h.setSessionCookie(c, sessionToken)
	c.JSON(http.StatusOK, loginResponse{GuestID: guest.ID, GroupID: guest.GroupID})
}

// POST /guest-auth/logout
// Idempotent: logging out without a session still clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(middleware.SessionCookie); err == nil && raw != "" {
		if err := h.sessions.Logout(c.Request.Context(), raw, h.meta(c)); err != nil {
			h.logger.ErrorContext(c.Request.Context(), "logout", "error", err)
		}
	}

	h.clearSessionCookie(c)
	c.Status(http.StatusNoContent)
}

type meResponse struct {
	GuestID   string  `json:"guest_id"`
	GroupID   string  `json:"group_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email,omitempty"`
}

// GET /guest-auth/me (behind the session middleware)
func (h *AuthHandler) Me(c *gin.Context) {
	guestID := c.GetString(middleware.GuestIDKey)

	guest, err := h.guests.GetByID(c.Request.Context(), guestID)
	if err != nil {
		// The session outlived the guest row; treat as signed out.
		if errors.Is(err, domain.ErrGuestNotFound) {
			c.JSON(http.StatusUnauthorized, errBody(codeInvalidCredentials, errInvalidCredentials))
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "load current guest", "error", err)
		c.JSON(http.StatusInternalServerError, errBody(codeInternal, errInternalServer))
		return
	}

	c.JSON(http.StatusOK, meResponse{
		GuestID:   guest.ID,
		GroupID:   guest.GroupID,
		FirstName: guest.FirstName,
		LastName:  guest.LastName,
		Email:     guest.Email,
	})
}

func (h *AuthHandler) meta(c *gin.Context) usecase.RequestMeta {
	return usecase.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, sessionMaxAge, "/", "", h.secureCookies, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookies, true)
}
