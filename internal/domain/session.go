package domain

import (
	"errors"
	"time"
)

var (
	ErrSessionInvalid = errors.New("session is invalid or expired")
	ErrSessionCreate  = errors.New("failed to create session")
)

// SessionTTL is the fixed lifetime of a guest session. Sessions are
// never renewed in place; expiry forces re-authentication.
const SessionTTL = 24 * time.Hour

// GuestSession is the server-side record behind the guest_session
// cookie. As with tokens, only the hash of the opaque value is stored.
type GuestSession struct {
	ID        string
	GuestID   string
	TokenHash string
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given
// instant. A session exactly at expiry is no longer valid.
func (s *GuestSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
