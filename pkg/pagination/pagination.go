// Package pagination implements cursor-based "take N+1" windowing shared by
// every listing endpoint.
//
// Repositories are asked for Limit+1 rows strictly after the cursor row in a
// stable order. Window trims the extra row and uses its presence to decide
// whether another page exists; the cursor handed back is the key of the last
// row actually returned, so walking pages never skips or repeats a row.
package pagination

import (
	"errors"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

var ErrInvalidLimit = errors.New("limit must be an integer between 1 and 100")

type Query struct {
	Cursor string
	Limit  int
}

// Take is the number of rows a repository should fetch for this query.
func (q Query) Take() int {
	return q.normalizedLimit() + 1
}

func (q Query) normalizedLimit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	if q.Limit > MaxLimit {
		return MaxLimit
	}
	return q.Limit
}

type Page[T any] struct {
	Data        []T     `json:"data"`
	NextCursor  *string `json:"nextCursor,omitempty"`
	HasNextPage bool    `json:"hasNextPage"`
}

// Window turns up to Take() rows into a page. key extracts the cursor value of a row.
func Window[T any](rows []T, q Query, key func(T) string) Page[T] {
	limit := q.normalizedLimit()

	if len(rows) <= limit {
		if rows == nil {
			rows = []T{}
		}
		return Page[T]{Data: rows}
	}

	rows = rows[:limit]
	next := key(rows[len(rows)-1])
	return Page[T]{
		Data:        rows,
		NextCursor:  &next,
		HasNextPage: true,
	}
}

// Map converts the rows of a page while keeping its cursor state.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Data))
	for i, row := range p.Data {
		out[i] = fn(row)
	}
	return Page[U]{Data: out, NextCursor: p.NextCursor, HasNextPage: p.HasNextPage}
}

// ParseQuery reads the cursor and limit query parameters. An empty limit falls
// back to DefaultLimit; a malformed or out of range one is rejected.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{Cursor: values.Get("cursor"), Limit: DefaultLimit}

	raw := values.Get("limit")
	if raw == "" {
		return q, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > MaxLimit {
		return q, ErrInvalidLimit
	}
	q.Limit = limit
	return q, nil
}
