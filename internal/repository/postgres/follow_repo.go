package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

type FollowRepo struct {
	pool *pgxpool.Pool
}

func NewFollowRepo(pool *pgxpool.Pool) *FollowRepo {
	return &FollowRepo{pool: pool}
}

func (r *FollowRepo) Create(ctx context.Context, follow *domain.UserFollow) error {
	query := `
		INSERT INTO user_follows (follower_id, followed_id, created_at)
		VALUES ($1, $2, $3)`
	_, err := r.pool.Exec(ctx, query, follow.FollowerID, follow.FollowedID, follow.CreatedAt)
	return mapError(err)
}

func (r *FollowRepo) Delete(ctx context.Context, followerID, followedID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_follows WHERE follower_id = $1 AND followed_id = $2`,
		followerID, followedID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FollowRepo) Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_follows WHERE follower_id = $1 AND followed_id = $2)`,
		followerID, followedID,
	).Scan(&exists)
	return exists, err
}

func (r *FollowRepo) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM user_follows WHERE followed_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *FollowRepo) CountFollowing(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM user_follows WHERE follower_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *FollowRepo) ListFollowers(ctx context.Context, userID uuid.UUID, q pagination.Query) ([]domain.FollowEntry, error) {
	return r.list(ctx, "follower_id", "followed_id", userID, q)
}

func (r *FollowRepo) ListFollowing(ctx context.Context, userID uuid.UUID, q pagination.Query) ([]domain.FollowEntry, error) {
	return r.list(ctx, "followed_id", "follower_id", userID, q)
}

// list returns the users on the "other" side of userID's edges. A cursor names
// the other user of the last row seen, which with userID identifies the edge.
func (r *FollowRepo) list(ctx context.Context, other, self string, userID uuid.UUID, q pagination.Query) ([]domain.FollowEntry, error) {
	cursor, err := repository.CursorID(q)
	if err != nil {
		return nil, err
	}

	base := `
		SELECT u.id, u.name, u.profile_picture, u.created_at, f.created_at
		FROM user_follows f
		JOIN users u ON u.id = f.` + other + `
		WHERE f.` + self + ` = $1`

	var rows pgx.Rows
	if cursor != nil {
		rows, err = r.pool.Query(ctx, base+`
			AND (f.created_at, f.`+other+`) < (
				SELECT created_at, `+other+` FROM user_follows
				WHERE `+self+` = $1 AND `+other+` = $2)
			ORDER BY f.created_at DESC, f.`+other+` DESC
			LIMIT $3`, userID, *cursor, q.Take())
	} else {
		rows, err = r.pool.Query(ctx, base+`
			ORDER BY f.created_at DESC, f.`+other+` DESC
			LIMIT $2`, userID, q.Take())
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.FollowEntry
	for rows.Next() {
		var e domain.FollowEntry
		if err := rows.Scan(
			&e.User.ID, &e.User.Name, &e.User.ProfilePicture, &e.User.CreatedAt, &e.FollowedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
