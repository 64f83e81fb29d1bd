package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/larabeech/guestgate/internal/domain"
	"github.com/larabeech/guestgate/internal/repository"
)

const guestColumns = `id, group_id, first_name, last_name, email, auth_method, created_at, updated_at`

type GuestRepository struct {
	pool *pgxpool.Pool
}

func NewGuestRepository(pool *pgxpool.Pool) *GuestRepository {
	return &GuestRepository{pool: pool}
}

func (r *GuestRepository) Create(ctx context.Context, in repository.CreateGuestInput) (*domain.Guest, error) {
	query := `
		INSERT INTO guests (group_id, first_name, last_name, email, auth_method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + guestColumns

	row := r.pool.QueryRow(ctx, query,
		in.GroupID,
		in.FirstName,
		in.LastName,
		normalizeEmail(in.Email),
		in.AuthMethod,
	)

	g, err := scanGuest(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, domain.ErrDuplicateEmail
			case "23514":
				return nil, domain.ErrInvalidAuthMethod
			}
		}
		return nil, err
	}
	return g, nil
}

func (r *GuestRepository) Update(ctx context.Context, id string, in repository.UpdateGuestInput) (*domain.Guest, error) {
	// COALESCE keeps columns the caller did not set. auth_method is the
	// exception: passing it always overwrites, including back to NULL
	// is not supported here (admins clear it via a dedicated flow).
	query := `
		UPDATE guests
		SET    first_name  = COALESCE($2, first_name),
		       last_name   = COALESCE($3, last_name),
		       email       = COALESCE($4, email),
		       auth_method = COALESCE($5, auth_method),
		       updated_at  = NOW()
		WHERE  id = $1
		RETURNING ` + guestColumns

	row := r.pool.QueryRow(ctx, query,
		id,
		in.FirstName,
		in.LastName,
		normalizeEmail(in.Email),
		in.AuthMethod,
	)

	g, err := scanGuest(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, domain.ErrDuplicateEmail
			case "23514":
				return nil, domain.ErrInvalidAuthMethod
			}
		}
		return nil, err
	}
	return g, nil
}

func (r *GuestRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGuestNotFound
	}
	return nil
}

func (r *GuestRepository) FindByID(ctx context.Context, id string) (*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE id = $1`
	return scanGuest(r.pool.QueryRow(ctx, query, id))
}

func (r *GuestRepository) FindByEmail(ctx context.Context, email string) (*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE email = $1`
	return scanGuest(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

func (r *GuestRepository) SetAuthMethodForAll(ctx context.Context, method domain.AuthMethod) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE guests
		SET    auth_method = $1, updated_at = NOW()
		WHERE  auth_method IS DISTINCT FROM $1`, method)
	if err != nil {
		return 0, fmt.Errorf("set auth method for all: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanGuest(row pgx.Row) (*domain.Guest, error) {
	var g domain.Guest
	err := row.Scan(&g.ID, &g.GroupID, &g.FirstName, &g.LastName, &g.Email, &g.AuthMethod, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGuestNotFound
		}
		return nil, fmt.Errorf("scan guest: %w", err)
	}
	return &g, nil
}

// normalizeEmail folds emails to lower case before they hit the unique
// index, so lookups can match exactly.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	lower := strings.ToLower(strings.TrimSpace(*email))
	return &lower
}
