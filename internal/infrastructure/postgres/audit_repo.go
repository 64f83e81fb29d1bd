package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/larabeech/guestgate/internal/domain"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Append(ctx context.Context, ev domain.AuditEvent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs (action, guest_id, email, method, success, ip_address, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.Action, ev.GuestID, ev.Email, ev.Method, ev.Success, ev.IPAddress, ev.Details)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
