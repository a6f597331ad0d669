package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hsm-gustavo/book-muse-backend/internal/cache"
	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/openlibrary"
)

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrUpstreamUnavailable = errors.New("book metadata service unavailable")
)

const authorCacheTTL = 24 * time.Hour

type BookSource interface {
	EditionByISBN(ctx context.Context, isbn string) (*openlibrary.Edition, error)
	EditionByOLID(ctx context.Context, olid string) (*openlibrary.Edition, error)
	Search(ctx context.Context, query string, page int) (*openlibrary.SearchResponse, error)
	AuthorName(ctx context.Context, authorID string) (string, error)
}

// BookService proxies Open Library and caches normalized results.
type BookService struct {
	source BookSource
	store  *cache.Store
	ttl    time.Duration
	log    *zap.Logger
}

func NewBookService(source BookSource, store *cache.Store, ttl time.Duration, log *zap.Logger) *BookService {
	return &BookService{source: source, store: store, ttl: ttl, log: log}
}

func (s *BookService) ByISBN(ctx context.Context, isbn string) (*domain.BookDetails, error) {
	return s.details(ctx, cache.BookISBNKey(isbn), func(ctx context.Context) (*openlibrary.Edition, error) {
		return s.source.EditionByISBN(ctx, isbn)
	})
}

func (s *BookService) ByOLID(ctx context.Context, olid string) (*domain.BookDetails, error) {
	return s.details(ctx, cache.BookOLIDKey(olid), func(ctx context.Context) (*openlibrary.Edition, error) {
		return s.source.EditionByOLID(ctx, olid)
	})
}

func (s *BookService) Search(ctx context.Context, query string, page int) (*domain.BookSearchResponse, error) {
	if page < 1 {
		page = 1
	}

	resp, err := cache.Remember(ctx, s.store, cache.BookSearchKey(query, page), s.ttl,
		func(ctx context.Context) (domain.BookSearchResponse, error) {
			r, err := s.source.Search(ctx, query, page)
			if err != nil {
				return domain.BookSearchResponse{}, err
			}
			return r.Page(page), nil
		})
	if err != nil {
		return nil, s.classify(err, zap.String("query", query), zap.Int("page", page))
	}
	return &resp, nil
}

func (s *BookService) details(ctx context.Context, key string, fetch func(context.Context) (*openlibrary.Edition, error)) (*domain.BookDetails, error) {
	d, err := cache.Remember(ctx, s.store, key, s.ttl, func(ctx context.Context) (domain.BookDetails, error) {
		edition, err := fetch(ctx)
		if err != nil {
			return domain.BookDetails{}, err
		}
		return edition.Details(s.authorNames(ctx, edition.AuthorIDs())), nil
	})
	if err != nil {
		return nil, s.classify(err, zap.String("key", key))
	}
	return &d, nil
}

// authorNames resolves what it can; authors that fail to load are skipped.
func (s *BookService) authorNames(ctx context.Context, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name, err := cache.Remember(ctx, s.store, cache.AuthorKey(id), authorCacheTTL, func(ctx context.Context) (string, error) {
			return s.source.AuthorName(ctx, id)
		})
		if err != nil {
			s.log.Warn("failed to fetch author", zap.String("author_id", id), zap.Error(err))
			continue
		}
		names = append(names, name)
	}
	return names
}

func (s *BookService) classify(err error, fields ...zap.Field) error {
	if errors.Is(err, openlibrary.ErrNotFound) {
		return ErrBookNotFound
	}
	s.log.Error("open library request failed", append(fields, zap.Error(err))...)
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}
