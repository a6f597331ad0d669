package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

const userColumns = "id, email, name, password_hash, profile_picture, profile_picture_key, role, created_at, updated_at"

// likeEscaper makes a search term match literally inside ILIKE ... ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, profile_picture, profile_picture_key, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash,
		user.ProfilePicture, user.PictureKey, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	return mapError(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Name, &u.PasswordHash,
			&u.ProfilePicture, &u.PictureKey, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Search(ctx context.Context, term string, q pagination.Query) ([]domain.UserSummary, error) {
	cursor, err := repository.CursorID(q)
	if err != nil {
		return nil, err
	}

	pattern := "%" + likeEscaper.Replace(term) + "%"
	var rows pgx.Rows
	if cursor != nil {
		rows, err = r.pool.Query(ctx, `
			SELECT id, name, email, profile_picture, created_at
			FROM users
			WHERE (name ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\')
				AND id > (SELECT id FROM users WHERE id = $2)
			ORDER BY id
			LIMIT $3`, pattern, *cursor, q.Take())
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id, name, email, profile_picture, created_at
			FROM users
			WHERE name ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\'
			ORDER BY id
			LIMIT $2`, pattern, q.Take())
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.UserSummary
	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.ProfilePicture, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET name = $1, profile_picture = $2, profile_picture_key = $3, updated_at = $4
		WHERE id = $5`
	tag, err := r.pool.Exec(ctx, query, user.Name, user.ProfilePicture, user.PictureKey, user.UpdatedAt, user.ID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.ProfilePicture, &u.PictureKey, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
