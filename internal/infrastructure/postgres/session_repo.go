package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/repository"
)

const sessionColumns = `id, guest_id, token_hash, expires_at, ip_address, user_agent, created_at`

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, in repository.CreateSessionInput) (*domain.GuestSession, error) {
	query := `
		INSERT INTO guest_sessions (guest_id, token_hash, expires_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + sessionColumns

	row := r.pool.QueryRow(ctx, query, in.GuestID, in.TokenHash, in.ExpiresAt, in.IPAddress, in.UserAgent)
	return scanSession(row)
}

func (r *SessionRepository) FindValid(ctx context.Context, tokenHash string) (*domain.GuestSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM   guest_sessions
		WHERE  token_hash = $1 AND expires_at > NOW()`

	return scanSession(r.pool.QueryRow(ctx, query, tokenHash))
}

func (r *SessionRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM guest_sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM guest_sessions WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSession(row pgx.Row) (*domain.GuestSession, error) {
	var s domain.GuestSession
	err := row.Scan(&s.ID, &s.GuestID, &s.TokenHash, &s.ExpiresAt, &s.IPAddress, &s.UserAgent, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, fmt.Errorf("scan guest session: %w", err)
	}
	return &s, nil
}
