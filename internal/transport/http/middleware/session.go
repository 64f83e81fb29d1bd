package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/larabeech/guestgate/internal/domain"
)

// SessionCookie is the cookie carrying the opaque guest session value.
const SessionCookie = "guest_session"

// GuestIDKey is where Session stores the authenticated guest's ID in
// the gin context.
const GuestIDKey = "guestID"

// sessionValidator is the subset of SessionUsecase this middleware needs.
type sessionValidator interface {
	Validate(ctx context.Context, rawToken string) (*domain.GuestSession, error)
}

// Session validates the guest_session cookie against the session
// store. Missing, unknown, and expired cookies all produce the same
// 401; the middleware never says which.
func Session(sessions sessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			abortUnauthenticated(c)
			return
		}

		session, err := sessions.Validate(c.Request.Context(), raw)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(GuestIDKey, session.GuestID)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Authentication required",
		},
	})
}
