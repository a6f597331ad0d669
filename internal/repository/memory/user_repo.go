package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

type UserRepo struct {
	s *Store
}

func NewUserRepo(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if _, ok := r.s.users[user.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *UserRepo) Search(_ context.Context, term string, q pagination.Query) ([]domain.UserSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	needle := strings.ToLower(term)
	var matches []domain.UserSummary
	for _, u := range r.s.users {
		if strings.Contains(strings.ToLower(u.Name), needle) || strings.Contains(strings.ToLower(u.Email), needle) {
			matches = append(matches, u.Summary())
		}
	}
	sort.Slice(matches, func(i, j int) bool { return uuidLess(matches[i].ID, matches[j].ID) })

	if cursor, err := repository.CursorID(q); err != nil {
		return nil, err
	} else if cursor != nil {
		if _, ok := r.s.users[*cursor]; !ok {
			return nil, nil
		}
		i := sort.Search(len(matches), func(i int) bool { return uuidLess(*cursor, matches[i].ID) })
		matches = matches[i:]
	}

	if len(matches) > q.Take() {
		matches = matches[:q.Take()]
	}
	return matches, nil
}

func (r *UserRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Name = user.Name
	u.ProfilePicture = user.ProfilePicture
	u.PictureKey = user.PictureKey
	u.UpdatedAt = user.UpdatedAt
	r.s.users[user.ID] = u
	return nil
}

// Delete cascades the same way the foreign keys do.
func (r *UserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)

	for k, t := range r.s.tokens {
		if t.UserID == id {
			delete(r.s.tokens, k)
		}
	}
	for k := range r.s.follows {
		if k.follower == id || k.followed == id {
			delete(r.s.follows, k)
		}
	}
	for rid, rv := range r.s.reviews {
		if rv.UserID != nil && *rv.UserID == id {
			delete(r.s.reviews, rid)
		}
	}
	for k := range r.s.likes {
		if _, ok := r.s.reviews[k.review]; !ok || k.user == id {
			delete(r.s.likes, k)
		}
	}
	for k := range r.s.statuses {
		if k.user == id {
			delete(r.s.statuses, k)
		}
	}
	return nil
}
