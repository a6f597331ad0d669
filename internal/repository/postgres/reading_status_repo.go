package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
)

type ReadingStatusRepo struct {
	pool *pgxpool.Pool
}

func NewReadingStatusRepo(pool *pgxpool.Pool) *ReadingStatusRepo {
	return &ReadingStatusRepo{pool: pool}
}

// Upsert keeps the id of an existing row and writes it back into status.
func (r *ReadingStatusRepo) Upsert(ctx context.Context, status *domain.UserBookStatus) error {
	query := `
		INSERT INTO user_book_statuses (id, user_id, open_library_id, status, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, open_library_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		status.ID, status.UserID, status.OpenLibraryID, status.Status, status.UpdatedAt,
	).Scan(&status.ID)
	return mapError(err)
}

func (r *ReadingStatusRepo) Get(ctx context.Context, userID uuid.UUID, openLibraryID string) (*domain.UserBookStatus, error) {
	query := `
		SELECT id, user_id, open_library_id, status, updated_at
		FROM user_book_statuses
		WHERE user_id = $1 AND open_library_id = $2`
	var s domain.UserBookStatus
	err := r.pool.QueryRow(ctx, query, userID, openLibraryID).Scan(
		&s.ID, &s.UserID, &s.OpenLibraryID, &s.Status, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ReadingStatusRepo) Delete(ctx context.Context, userID uuid.UUID, openLibraryID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_book_statuses WHERE user_id = $1 AND open_library_id = $2`,
		userID, openLibraryID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReadingStatusRepo) List(ctx context.Context, userID uuid.UUID, status domain.ReadingStatus) ([]domain.UserBookStatus, error) {
	query := `
		SELECT id, user_id, open_library_id, status, updated_at
		FROM user_book_statuses
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []domain.UserBookStatus
	for rows.Next() {
		var s domain.UserBookStatus
		if err := rows.Scan(&s.ID, &s.UserID, &s.OpenLibraryID, &s.Status, &s.UpdatedAt); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *ReadingStatusRepo) CountByStatus(ctx context.Context, userID uuid.UUID, status domain.ReadingStatus) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM user_book_statuses WHERE user_id = $1 AND status = $2`,
		userID, string(status),
	).Scan(&n)
	return n, err
}
