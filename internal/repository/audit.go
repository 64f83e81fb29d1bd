package repository

import (
	"context"

	"github.com/larabeech/guestgate/internal/domain"
)

// AuditRepository is an append-only sink. Callers treat writes as
// best-effort and must not fail authentication on an audit error.
type AuditRepository interface {
	Append(ctx context.Context, ev domain.AuditEvent) error
}
