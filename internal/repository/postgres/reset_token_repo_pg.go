package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gtu-transit/auth-gateway/internal/domain"
)

type ResetTokenRepository struct {
	db *sqlx.DB
}

func NewResetTokenRepo(db *sqlx.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Create inserts a fresh token. A partial unique index on (email) WHERE
// used = FALSE backs the one-pending-token-per-email invariant, so a
// concurrent duplicate surfaces here as a unique violation (23505).
func (r *ResetTokenRepository) Create(ctx context.Context, token, email string, expiresAt time.Time) (*domain.ResetToken, error) {
	const query = `
        INSERT INTO reset_tokens (token, email, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, token, email, expires_at, used, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, token, email, expiresAt)
	var reset domain.ResetToken
	if err := row.StructScan(&reset); err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *ResetTokenRepository) FindByToken(ctx context.Context, token string) (*domain.ResetToken, error) {
	const query = `
        SELECT id, token, email, expires_at, used, created_at
        FROM reset_tokens
        WHERE token = $1
    `
	var reset domain.ResetToken
	if err := r.db.GetContext(ctx, &reset, query, token); err != nil {
		return nil, err
	}
	return &reset, nil
}

// FindPendingByEmail returns the unused token for an email regardless of
// expiry; expiry is judged lazily at redemption time, not here.
func (r *ResetTokenRepository) FindPendingByEmail(ctx context.Context, email string) (*domain.ResetToken, error) {
	const query = `
        SELECT id, token, email, expires_at, used, created_at
        FROM reset_tokens
        WHERE email = $1 AND used = FALSE
        ORDER BY created_at DESC
        LIMIT 1
    `
	var reset domain.ResetToken
	if err := r.db.GetContext(ctx, &reset, query, email); err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *ResetTokenRepository) MarkUsed(ctx context.Context, id int64) error {
	const query = `
        UPDATE reset_tokens
        SET used = TRUE
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
