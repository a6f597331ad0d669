package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
)

type RefreshTokenRepo struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepo(pool *pgxpool.Pool) *RefreshTokenRepo {
	return &RefreshTokenRepo{pool: pool}
}

func (r *RefreshTokenRepo) Create(ctx context.Context, token *domain.RefreshToken) error {
	return insertRefreshToken(ctx, r.pool, token)
}

func (r *RefreshTokenRepo) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `
		SELECT id, token, user_id, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE token = $1`
	var t domain.RefreshToken
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&t.ID, &t.Token, &t.UserID, &t.ExpiresAt, &t.Revoked, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Rotate relies on the row lock taken by the conditional UPDATE: a concurrent
// redemption of the same token blocks until this transaction ends and then
// matches zero rows.
func (r *RefreshTokenRepo) Rotate(ctx context.Context, presented string, replacement *domain.RefreshToken, now time.Time) (*domain.RefreshToken, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("beginning rotation: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var userID uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE refresh_tokens
		SET revoked = true
		WHERE token = $1 AND revoked = false AND expires_at > $2
		RETURNING user_id`, presented, now,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redeeming token: %w", err)
	}

	replacement.UserID = userID
	if err := insertRefreshToken(ctx, tx, replacement); err != nil {
		return nil, fmt.Errorf("storing replacement: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing rotation: %w", err)
	}
	return replacement, nil
}

func (r *RefreshTokenRepo) Revoke(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE refresh_tokens
		SET revoked = true
		WHERE user_id = $1 AND token = $2 AND revoked = false`, userID, token)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertRefreshToken(ctx context.Context, db execer, t *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, token, user_id, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := db.Exec(ctx, query, t.ID, t.Token, t.UserID, t.ExpiresAt, t.Revoked, t.CreatedAt)
	return mapError(err)
}
