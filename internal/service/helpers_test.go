package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hsm-gustavo/book-muse-backend/internal/cache"
	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository/memory"
)

type fixture struct {
	redis *miniredis.Miniredis
	store *cache.Store

	users    *memory.UserRepo
	tokens   *memory.RefreshTokenRepo
	follows  *memory.FollowRepo
	reviews  *memory.ReviewRepo
	statuses *memory.ReadingStatusRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := memory.NewStore()
	return &fixture{
		redis:    mr,
		store:    cache.NewStore(rdb, zap.NewNop()),
		users:    memory.NewUserRepo(s),
		tokens:   memory.NewRefreshTokenRepo(s),
		follows:  memory.NewFollowRepo(s),
		reviews:  memory.NewReviewRepo(s),
		statuses: memory.NewReadingStatusRepo(s),
	}
}

func (f *fixture) userService(objects ObjectStore) *UserService {
	profiles := NewProfileCache(f.store, f.follows, f.statuses)
	return NewUserService(f.users, f.reviews, f.statuses, profiles, objects, zap.NewNop())
}

func (f *fixture) seedUser(t *testing.T, name, password string) *domain.User {
	t.Helper()

	hash, err := hashPassword(password)
	require.NoError(t, err)

	now := time.Now()
	u := &domain.User{
		ID:           uuid.New(),
		Email:        name + "@example.com",
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

type followEvent struct {
	to       uuid.UUID
	follower uuid.UUID
}

type likeEvent struct {
	to     uuid.UUID
	review uuid.UUID
	liker  uuid.UUID
}

type recordingNotifier struct {
	mu      sync.Mutex
	follows []followEvent
	likes   []likeEvent
}

func (n *recordingNotifier) NotifyNewFollower(followedID uuid.UUID, follower domain.UserSummary) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.follows = append(n.follows, followEvent{to: followedID, follower: follower.ID})
}

func (n *recordingNotifier) NotifyReviewLiked(authorID, reviewID uuid.UUID, liker domain.UserSummary) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.likes = append(n.likes, likeEvent{to: authorID, review: reviewID, liker: liker.ID})
}

type fakeObjects struct {
	uploads []string
	deleted []string
	err     error
}

func (o *fakeObjects) Upload(_ context.Context, folder, ext, _ string, _ []byte) (string, string, error) {
	if o.err != nil {
		return "", "", o.err
	}
	key := folder + "/" + uuid.NewString() + ext
	url := fakeCDN + key
	o.uploads = append(o.uploads, url)
	return key, url, nil
}

// Delete records the public URL of the removed key.
func (o *fakeObjects) Delete(_ context.Context, key string) error {
	o.deleted = append(o.deleted, fakeCDN+key)
	return nil
}

const fakeCDN = "https://cdn.example.com/"
