package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

func TestFollowLifecycle(t *testing.T) {
	api := newTestAPI(t, nil)
	alice := api.signUp("alice")
	bob := api.signUp("bob")
	followPath := "/api/v1/users/" + alice.ID + "/follow"
	unfollowPath := "/api/v1/users/" + alice.ID + "/unfollow"

	rec := api.do(http.MethodPost, followPath, bob.AccessToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, followPath, bob.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPost, followPath, alice.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/users/00000000-0000-0000-0000-000000000001/follow", bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/users/"+alice.ID+"/follow-counts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var counts domain.FollowCounts
	decode(t, rec, &counts)
	assert.Equal(t, domain.FollowCounts{Followers: 1, Following: 0}, counts)

	rec = api.do(http.MethodDelete, unfollowPath, bob.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodDelete, unfollowPath, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowersPaging(t *testing.T) {
	api := newTestAPI(t, nil)
	star := api.signUp("star")
	fans := []session{api.signUp("fan1"), api.signUp("fan2"), api.signUp("fan3")}
	for _, fan := range fans {
		rec := api.do(http.MethodPost, "/api/v1/users/"+star.ID+"/follow", fan.AccessToken, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	seen := map[string]bool{}
	path := "/api/v1/users/" + star.ID + "/followers?limit=2"
	for pages := 0; ; pages++ {
		require.Less(t, pages, 3)

		rec := api.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var page pagination.Page[domain.UserSummary]
		decode(t, rec, &page)

		for _, u := range page.Data {
			assert.False(t, seen[u.ID.String()], "follower repeated across pages")
			assert.Empty(t, u.Email)
			seen[u.ID.String()] = true
		}
		if !page.HasNextPage {
			break
		}
		path = "/api/v1/users/" + star.ID + "/followers?limit=2&cursor=" + *page.NextCursor
	}
	assert.Len(t, seen, 3)

	rec := api.do(http.MethodGet, "/api/v1/users/"+fans[0].ID+"/following", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var following pagination.Page[domain.UserSummary]
	decode(t, rec, &following)
	require.Len(t, following.Data, 1)
	assert.Equal(t, star.ID, following.Data[0].ID.String())
}

func TestFollowCountsBothWays(t *testing.T) {
	api := newTestAPI(t, nil)
	a := api.signUp("a")
	b := api.signUp("b")

	counts := func(s session) domain.FollowCounts {
		rec := api.do(http.MethodGet, "/api/v1/users/"+s.ID+"/follow-counts", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var c domain.FollowCounts
		decode(t, rec, &c)
		return c
	}

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/users/"+b.ID+"/follow", a.AccessToken, nil).Code)
	assert.Equal(t, domain.FollowCounts{Followers: 1, Following: 0}, counts(b))

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/users/"+a.ID+"/follow", b.AccessToken, nil).Code)
	assert.Equal(t, domain.FollowCounts{Followers: 1, Following: 1}, counts(a))
}
