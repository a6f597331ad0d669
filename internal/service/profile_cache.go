package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hsm-gustavo/book-muse-backend/internal/cache"
	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository"
)

const profileCacheTTL = 30 * time.Second

// ProfileCache serves profile counts and follow flags from redis for up to
// profileCacheTTL. Writes never invalidate it, so values may lag by that much.
type ProfileCache struct {
	store      *cache.Store
	followRepo repository.FollowRepository
	statusRepo repository.ReadingStatusRepository
}

func NewProfileCache(store *cache.Store, followRepo repository.FollowRepository, statusRepo repository.ReadingStatusRepository) *ProfileCache {
	return &ProfileCache{
		store:      store,
		followRepo: followRepo,
		statusRepo: statusRepo,
	}
}

func (p *ProfileCache) Counts(ctx context.Context, userID uuid.UUID) (domain.ProfileCounts, error) {
	return cache.Remember(ctx, p.store, cache.ProfileKey(userID), profileCacheTTL,
		func(ctx context.Context) (domain.ProfileCounts, error) {
			return p.loadCounts(ctx, userID)
		})
}

func (p *ProfileCache) IsFollowing(ctx context.Context, viewerID, targetID uuid.UUID) (bool, error) {
	return cache.Remember(ctx, p.store, cache.FollowsKey(viewerID, targetID), profileCacheTTL,
		func(ctx context.Context) (bool, error) {
			return p.followRepo.Exists(ctx, viewerID, targetID)
		})
}

func (p *ProfileCache) loadCounts(ctx context.Context, userID uuid.UUID) (domain.ProfileCounts, error) {
	var counts domain.ProfileCounts

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := p.followRepo.CountFollowers(ctx, userID)
		counts.FollowersCount = n
		return err
	})
	g.Go(func() error {
		n, err := p.followRepo.CountFollowing(ctx, userID)
		counts.FollowingCount = n
		return err
	})
	g.Go(func() error {
		n, err := p.statusRepo.CountByStatus(ctx, userID, domain.StatusRead)
		counts.ReadBooksCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.ProfileCounts{}, fmt.Errorf("counting profile: %w", err)
	}
	return counts, nil
}
