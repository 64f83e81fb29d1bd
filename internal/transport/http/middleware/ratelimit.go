package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/larabeech/guestgate/internal/metrics"
	"github.com/larabeech/guestgate/internal/ratelimit"
)

// RateLimit rejects login attempts over the limiter's budget before
// they reach the authenticators. The window is keyed per email, so an
// email's budget holds no matter how many source addresses the
// attempts arrive from. Requests with no parseable email fall back to
// a per-IP key.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := peekEmail(c)
		if key == "" {
			key = "ip|" + c.ClientIP()
		}

		res := limiter.Allow(key)
		if !res.Allowed {
			metrics.RateLimited.Inc()
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "Too many attempts. Try again later.",
				},
			})
			return
		}
		c.Next()
	}
}

// peekEmail reads the email field from a JSON body without consuming
// it for the handler. Returns "" when the body has no usable email.
func peekEmail(c *gin.Context) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindBodyWithJSON(&body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}
