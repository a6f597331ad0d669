package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

type FollowRepo struct {
	s *Store
}

func NewFollowRepo(s *Store) *FollowRepo {
	return &FollowRepo{s: s}
}

func (r *FollowRepo) Create(_ context.Context, follow *domain.UserFollow) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[follow.FollowerID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.users[follow.FollowedID]; !ok {
		return repository.ErrNotFound
	}
	k := followKey{follower: follow.FollowerID, followed: follow.FollowedID}
	if _, ok := r.s.follows[k]; ok {
		return repository.ErrDuplicate
	}
	r.s.follows[k] = *follow
	return nil
}

func (r *FollowRepo) Delete(_ context.Context, followerID, followedID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := followKey{follower: followerID, followed: followedID}
	if _, ok := r.s.follows[k]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.follows, k)
	return nil
}

func (r *FollowRepo) Exists(_ context.Context, followerID, followedID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.follows[followKey{follower: followerID, followed: followedID}]
	return ok, nil
}

func (r *FollowRepo) CountFollowers(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for k := range r.s.follows {
		if k.followed == userID {
			n++
		}
	}
	return n, nil
}

func (r *FollowRepo) CountFollowing(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for k := range r.s.follows {
		if k.follower == userID {
			n++
		}
	}
	return n, nil
}

func (r *FollowRepo) ListFollowers(_ context.Context, userID uuid.UUID, q pagination.Query) ([]domain.FollowEntry, error) {
	return r.list(q, func(k followKey) (uuid.UUID, bool) { return k.follower, k.followed == userID })
}

func (r *FollowRepo) ListFollowing(_ context.Context, userID uuid.UUID, q pagination.Query) ([]domain.FollowEntry, error) {
	return r.list(q, func(k followKey) (uuid.UUID, bool) { return k.followed, k.follower == userID })
}

// list collects the other side of every edge match accepts.
func (r *FollowRepo) list(q pagination.Query, match func(followKey) (uuid.UUID, bool)) ([]domain.FollowEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var entries []domain.FollowEntry
	for k, f := range r.s.follows {
		other, ok := match(k)
		if !ok {
			continue
		}
		u := r.s.users[other]
		summary := u.Summary()
		summary.Email = ""
		entries = append(entries, domain.FollowEntry{User: summary, FollowedAt: f.CreatedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return newerFirst(entries[i].FollowedAt, entries[i].User.ID, entries[j].FollowedAt, entries[j].User.ID)
	})

	return window(entries, q, func(e domain.FollowEntry) uuid.UUID { return e.User.ID })
}
