package domain

import (
	"errors"
	"time"
)

var (
	ErrTokenInvalid   = errors.New("token is invalid, expired, or already used")
	ErrTokenCollision = errors.New("generated token collides with an existing one")
)

// TokenTTL is how long a magic-link token stays usable after issuance.
const TokenTTL = 15 * time.Minute

// TokenSweepGrace is how far past expiry a token must be before the
// sweeper deletes it. Expired tokens are already unusable; the grace
// period only bounds storage growth.
const TokenSweepGrace = 24 * time.Hour

// MagicLinkToken is a single-use emailed credential. Only the SHA-256
// hash of the raw value is stored; the raw value exists solely in the
// emailed link. A token transitions unused -> used exactly once.
type MagicLinkToken struct {
	ID        string
	GuestID   string
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}
