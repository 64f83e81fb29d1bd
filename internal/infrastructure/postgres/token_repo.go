package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/repository"
)

const tokenColumns = `id, guest_id, token_hash, expires_at, used, used_at, ip_address, user_agent, created_at`

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Create(ctx context.Context, in repository.CreateTokenInput) (*domain.MagicLinkToken, error) {
	query := `
		INSERT INTO magic_link_tokens (guest_id, token_hash, expires_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + tokenColumns

	row := r.pool.QueryRow(ctx, query, in.GuestID, in.TokenHash, in.ExpiresAt, in.IPAddress, in.UserAgent)

	t, err := scanToken(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrTokenCollision
		}
		return nil, err
	}
	return t, nil
}

func (r *TokenRepository) Claim(ctx context.Context, tokenHash string) (*domain.MagicLinkToken, error) {
	// One conditional update, not read-then-write: under concurrent
	// verification of the same token exactly one UPDATE matches the
	// used = false precondition. Expiry is checked in the same guard so
	// an expired-but-unused token stays unused.
	query := `
		UPDATE magic_link_tokens
		SET    used = TRUE, used_at = NOW()
		WHERE  token_hash = $1
		  AND  used = FALSE
		  AND  expires_at > NOW()
		RETURNING ` + tokenColumns

	t, err := scanToken(r.pool.QueryRow(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	return t, nil
}

func (r *TokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM magic_link_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanToken(row pgx.Row) (*domain.MagicLinkToken, error) {
	var t domain.MagicLinkToken
	err := row.Scan(&t.ID, &t.GuestID, &t.TokenHash, &t.ExpiresAt, &t.Used, &t.UsedAt, &t.IPAddress, &t.UserAgent, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Never existed, already used, and expired are deliberately
			// indistinguishable here.
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("scan magic link token: %w", err)
	}
	return &t, nil
}
