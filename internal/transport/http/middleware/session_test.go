package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/larabeech/guestgate/internal/domain"
)

type fakeValidator struct {
	validate func(ctx context.Context, rawToken string) (*domain.GuestSession, error)
}

func (f *fakeValidator) Validate(ctx context.Context, rawToken string) (*domain.GuestSession, error) {
	return f.validate(ctx, rawToken)
}

func runSession(t *testing.T, validator sessionValidator, cookie *http.Cookie) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/guest-auth/me", nil)
	if cookie != nil {
		c.Request.AddCookie(cookie)
	}
	Session(validator)(c)
	return w, c
}

func TestSession_NoCookie_Returns401(t *testing.T) {
	validator := &fakeValidator{
		validate: func(context.Context, string) (*domain.GuestSession, error) {
			t.Fatal("validator called without a cookie")
			return nil, nil
		},
	}

	w, c := runSession(t, validator, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if !c.IsAborted() {
		t.Error("chain was not aborted")
	}
}

func TestSession_InvalidSession_Returns401(t *testing.T) {
	validator := &fakeValidator{
		validate: func(context.Context, string) (*domain.GuestSession, error) {
			return nil, domain.ErrSessionInvalid
		},
	}

	w, _ := runSession(t, validator, &http.Cookie{Name: SessionCookie, Value: "stale"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestSession_StoreError_SameResponseAsInvalid(t *testing.T) {
	validator := &fakeValidator{
		validate: func(context.Context, string) (*domain.GuestSession, error) {
			return nil, errors.New("db down")
		},
	}

	w, _ := runSession(t, validator, &http.Cookie{Name: SessionCookie, Value: "whatever"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestSession_ValidCookie_SetsGuestID(t *testing.T) {
	validator := &fakeValidator{
		validate: func(_ context.Context, rawToken string) (*domain.GuestSession, error) {
			if rawToken != "live-token" {
				return nil, domain.ErrSessionInvalid
			}
			return &domain.GuestSession{ID: "session-1", GuestID: "guest-1"}, nil
		},
	}

	_, c := runSession(t, validator, &http.Cookie{Name: SessionCookie, Value: "live-token"})
	if c.IsAborted() {
		t.Fatal("valid session was rejected")
	}
	if got := c.GetString(GuestIDKey); got != "guest-1" {
		t.Errorf("guest id in context = %q, want guest-1", got)
	}
}
