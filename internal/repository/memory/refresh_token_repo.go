package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
)

type RefreshTokenRepo struct {
	s *Store
}

func NewRefreshTokenRepo(s *Store) *RefreshTokenRepo {
	return &RefreshTokenRepo{s: s}
}

func (r *RefreshTokenRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insert(token)
}

func (r *RefreshTokenRepo) GetByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tokens[token]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *RefreshTokenRepo) Rotate(_ context.Context, presented string, replacement *domain.RefreshToken, now time.Time) (*domain.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tokens[presented]
	if !ok || !t.Redeemable(now) {
		return nil, nil
	}

	replacement.UserID = t.UserID
	if err := r.insert(replacement); err != nil {
		return nil, err
	}
	t.Revoked = true
	r.s.tokens[presented] = t
	return replacement, nil
}

func (r *RefreshTokenRepo) Revoke(_ context.Context, userID uuid.UUID, token string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tokens[token]
	if !ok || t.UserID != userID || t.Revoked {
		return false, nil
	}
	t.Revoked = true
	r.s.tokens[token] = t
	return true, nil
}

func (r *RefreshTokenRepo) insert(token *domain.RefreshToken) error {
	if _, ok := r.s.tokens[token.Token]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := r.s.users[token.UserID]; !ok {
		return repository.ErrNotFound
	}
	r.s.tokens[token.Token] = *token
	return nil
}
