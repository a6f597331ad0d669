package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

const reviewListSelect = `
	SELECT r.id, r.title, r.description, r.rating, r.open_library_id, r.user_id,
		r.created_at, r.updated_at, u.id, u.name, u.profile_picture,
		(SELECT count(*) FROM review_likes l WHERE l.review_id = r.id)
	FROM reviews r
	LEFT JOIN users u ON u.id = r.user_id`

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

func (r *ReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, title, description, rating, open_library_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		review.ID, review.Title, review.Description, review.Rating,
		review.OpenLibraryID, review.UserID, review.CreatedAt, review.UpdatedAt,
	)
	return mapError(err)
}

func (r *ReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `
		SELECT id, title, description, rating, open_library_id, user_id, created_at, updated_at
		FROM reviews
		WHERE id = $1`
	var rv domain.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rv.ID, &rv.Title, &rv.Description, &rv.Rating,
		&rv.OpenLibraryID, &rv.UserID, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// GetDetail leaves LikedByMe unset; it depends on the viewer.
func (r *ReviewRepo) GetDetail(ctx context.Context, id uuid.UUID) (*domain.ReviewDetail, error) {
	item, err := scanReviewItem(r.pool.QueryRow(ctx, reviewListSelect+` WHERE r.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.ReviewDetail{Review: item.Review, Author: item.Author, LikeCount: item.LikeCount}, nil
}

func (r *ReviewRepo) ListByBook(ctx context.Context, openLibraryID string, q pagination.Query) ([]domain.ReviewListItem, error) {
	return r.list(ctx, "r.open_library_id = $1", openLibraryID, q)
}

func (r *ReviewRepo) ListByUser(ctx context.Context, userID uuid.UUID, q pagination.Query) ([]domain.ReviewListItem, error) {
	return r.list(ctx, "r.user_id = $1", userID, q)
}

func (r *ReviewRepo) list(ctx context.Context, filter string, arg any, q pagination.Query) ([]domain.ReviewListItem, error) {
	cursor, err := repository.CursorID(q)
	if err != nil {
		return nil, err
	}

	var rows pgx.Rows
	if cursor != nil {
		rows, err = r.pool.Query(ctx, reviewListSelect+`
			WHERE `+filter+`
				AND (r.created_at, r.id) < (SELECT created_at, id FROM reviews WHERE id = $2)
			ORDER BY r.created_at DESC, r.id DESC
			LIMIT $3`, arg, *cursor, q.Take())
	} else {
		rows, err = r.pool.Query(ctx, reviewListSelect+`
			WHERE `+filter+`
			ORDER BY r.created_at DESC, r.id DESC
			LIMIT $2`, arg, q.Take())
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ReviewListItem
	for rows.Next() {
		item, err := scanReviewItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *ReviewRepo) Recent(ctx context.Context, userID uuid.UUID, n int) ([]domain.RecentReview, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, rating, description, created_at
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, userID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.RecentReview
	for rows.Next() {
		var rv domain.RecentReview
		if err := rows.Scan(&rv.ID, &rv.Title, &rv.Rating, &rv.Description, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepo) Update(ctx context.Context, review *domain.Review) error {
	query := `UPDATE reviews SET title = $1, description = $2, rating = $3, updated_at = $4 WHERE id = $5`
	tag, err := r.pool.Exec(ctx, query, review.Title, review.Description, review.Rating, review.UpdatedAt, review.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) AddLike(ctx context.Context, like *domain.ReviewLike) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO review_likes (user_id, review_id, created_at) VALUES ($1, $2, $3)`,
		like.UserID, like.ReviewID, like.CreatedAt,
	)
	return mapError(err)
}

func (r *ReviewRepo) RemoveLike(ctx context.Context, userID, reviewID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM review_likes WHERE user_id = $1 AND review_id = $2`, userID, reviewID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) HasLiked(ctx context.Context, userID, reviewID uuid.UUID) (bool, error) {
	var liked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM review_likes WHERE user_id = $1 AND review_id = $2)`,
		userID, reviewID,
	).Scan(&liked)
	return liked, err
}

func scanReviewItem(row pgx.Row) (*domain.ReviewListItem, error) {
	var (
		item          domain.ReviewListItem
		authorID      *uuid.UUID
		authorName    *string
		authorPicture *string
	)
	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Rating,
		&item.OpenLibraryID, &item.UserID, &item.CreatedAt, &item.UpdatedAt,
		&authorID, &authorName, &authorPicture, &item.LikeCount,
	)
	if err != nil {
		return nil, err
	}
	if authorID != nil {
		item.Author = &domain.ReviewAuthor{ID: *authorID, ProfilePicture: authorPicture}
		if authorName != nil {
			item.Author.Name = *authorName
		}
	}
	return &item, nil
}
