package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

type ReviewRepo struct {
	s *Store
}

func NewReviewRepo(s *Store) *ReviewRepo {
	return &ReviewRepo{s: s}
}

func (r *ReviewRepo) Create(_ context.Context, review *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if review.UserID != nil {
		if _, ok := r.s.users[*review.UserID]; !ok {
			return repository.ErrNotFound
		}
	}
	if _, ok := r.s.reviews[review.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *ReviewRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func (r *ReviewRepo) GetDetail(_ context.Context, id uuid.UUID) (*domain.ReviewDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, nil
	}
	item := r.item(rv)
	return &domain.ReviewDetail{Review: item.Review, Author: item.Author, LikeCount: item.LikeCount}, nil
}

func (r *ReviewRepo) ListByBook(_ context.Context, openLibraryID string, q pagination.Query) ([]domain.ReviewListItem, error) {
	return r.list(q, func(rv domain.Review) bool { return rv.OpenLibraryID == openLibraryID })
}

func (r *ReviewRepo) ListByUser(_ context.Context, userID uuid.UUID, q pagination.Query) ([]domain.ReviewListItem, error) {
	return r.list(q, func(rv domain.Review) bool { return rv.UserID != nil && *rv.UserID == userID })
}

func (r *ReviewRepo) list(q pagination.Query, match func(domain.Review) bool) ([]domain.ReviewListItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := r.sorted(match)
	return window(items, q, func(i domain.ReviewListItem) uuid.UUID { return i.ID })
}

func (r *ReviewRepo) Recent(_ context.Context, userID uuid.UUID, n int) ([]domain.RecentReview, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := r.sorted(func(rv domain.Review) bool { return rv.UserID != nil && *rv.UserID == userID })
	if len(items) > n {
		items = items[:n]
	}
	recent := make([]domain.RecentReview, len(items))
	for i, it := range items {
		recent[i] = domain.RecentReview{
			ID:          it.ID,
			Title:       it.Title,
			Rating:      it.Rating,
			Description: it.Description,
			CreatedAt:   it.CreatedAt,
		}
	}
	return recent, nil
}

func (r *ReviewRepo) Update(_ context.Context, review *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rv, ok := r.s.reviews[review.ID]
	if !ok {
		return repository.ErrNotFound
	}
	rv.Title = review.Title
	rv.Description = review.Description
	rv.Rating = review.Rating
	rv.UpdatedAt = review.UpdatedAt
	r.s.reviews[review.ID] = rv
	return nil
}

func (r *ReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.reviews, id)
	for k := range r.s.likes {
		if k.review == id {
			delete(r.s.likes, k)
		}
	}
	return nil
}

func (r *ReviewRepo) AddLike(_ context.Context, like *domain.ReviewLike) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[like.ReviewID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.users[like.UserID]; !ok {
		return repository.ErrNotFound
	}
	k := likeKey{user: like.UserID, review: like.ReviewID}
	if _, ok := r.s.likes[k]; ok {
		return repository.ErrDuplicate
	}
	r.s.likes[k] = *like
	return nil
}

func (r *ReviewRepo) RemoveLike(_ context.Context, userID, reviewID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := likeKey{user: userID, review: reviewID}
	if _, ok := r.s.likes[k]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.likes, k)
	return nil
}

func (r *ReviewRepo) HasLiked(_ context.Context, userID, reviewID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.likes[likeKey{user: userID, review: reviewID}]
	return ok, nil
}

func (r *ReviewRepo) sorted(match func(domain.Review) bool) []domain.ReviewListItem {
	var items []domain.ReviewListItem
	for _, rv := range r.s.reviews {
		if match(rv) {
			items = append(items, r.item(rv))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return newerFirst(items[i].CreatedAt, items[i].ID, items[j].CreatedAt, items[j].ID)
	})
	return items
}

func (r *ReviewRepo) item(rv domain.Review) domain.ReviewListItem {
	item := domain.ReviewListItem{Review: rv, LikeCount: r.countLikes(rv.ID)}
	if rv.UserID != nil {
		if u, ok := r.s.users[*rv.UserID]; ok {
			item.Author = &domain.ReviewAuthor{ID: u.ID, Name: u.Name, ProfilePicture: u.ProfilePicture}
		}
	}
	return item
}

func (r *ReviewRepo) countLikes(reviewID uuid.UUID) int {
	n := 0
	for k := range r.s.likes {
		if k.review == reviewID {
			n++
		}
	}
	return n
}
