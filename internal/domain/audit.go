package domain

import "time"

// Audit actions recorded for authentication activity.
const (
	AuditMagicLinkRequested   = "magic_link_requested"
	AuditMagicLinkVerified    = "magic_link_verified"
	AuditMagicLinkRejected    = "magic_link_rejected"
	AuditEmailMatchLogin      = "email_match_login"
	AuditEmailMatchRejected   = "email_match_rejected"
	AuditGuestLogout          = "guest_logout"
	AuditDefaultMethodChanged = "default_auth_method_changed"
)

// AuditEvent is an append-only record of an authentication attempt.
// Writing one is best-effort: a failed write is logged and never
// surfaced to the guest.
type AuditEvent struct {
	ID        string
	Action    string
	GuestID   *string
	Email     *string
	Method    *AuthMethod
	Success   bool
	IPAddress string
	Details   string
	CreatedAt time.Time
}
