package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// mapError translates constraint violations into repository errors.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		return repository.ErrDuplicate
	case foreignKeyViolation:
		return repository.ErrNotFound
	}
	return err
}
