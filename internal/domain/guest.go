package domain

import (
	"errors"
	"time"
)

var (
	ErrGuestNotFound      = errors.New("guest not found")
	ErrInvalidAuthMethod  = errors.New("invalid auth method")
	ErrMethodMismatch     = errors.New("guest is not configured for this auth method")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("guest with this email already exists")
)

// AuthMethod is how a guest proves who they are.
type AuthMethod string

const (
	AuthMethodEmailMatching AuthMethod = "email_matching"
	AuthMethodMagicLink     AuthMethod = "magic_link"
)

func (m AuthMethod) Valid() bool {
	return m == AuthMethodEmailMatching || m == AuthMethodMagicLink
}

// Guest is a person invited to the event. AuthMethod is nil when the
// guest inherits the system default.
type Guest struct {
	ID         string
	GroupID    string
	FirstName  string
	LastName   string
	Email      *string
	AuthMethod *AuthMethod
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EffectiveAuthMethod resolves the method that applies to this guest:
// the guest's own setting if present, otherwise the system default.
// Resolution happens at decision time, so changing the default takes
// effect for every guest without an explicit override.
func (g *Guest) EffectiveAuthMethod(settings Settings) AuthMethod {
	if g.AuthMethod != nil {
		return *g.AuthMethod
	}
	return settings.DefaultAuthMethod
}
