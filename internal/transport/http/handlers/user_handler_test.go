package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
	"github.com/hsm-gustavo/book-muse-backend/pkg/pagination"
)

var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")

func TestCreateUser(t *testing.T) {
	api := newTestAPI(t, nil)
	api.signUp("alice")

	rec := api.do(http.MethodPost, "/api/v1/users", "", map[string]string{
		"name": "Alice Again", "email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/users", "", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec).Error.Fields, "password")
}

func TestCreateUserHidesPasswordHash(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodPost, "/api/v1/users", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, strings.ToLower(rec.Body.String()), "password")
}

func TestGetUser(t *testing.T) {
	api := newTestAPI(t, nil)
	alice := api.signUp("alice")

	rec := api.do(http.MethodGet, "/api/v1/users/"+alice.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile domain.UserProfile
	decode(t, rec, &profile)
	assert.Equal(t, "alice", profile.Name)
	assert.Equal(t, 0, profile.ReadCount)

	rec = api.do(http.MethodGet, "/api/v1/users/00000000-0000-0000-0000-000000000001", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/users/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateMe(t *testing.T) {
	api := newTestAPI(t, nil)
	alice := api.signUp("alice")

	rec := api.do(http.MethodPatch, "/api/v1/users/me", alice.AccessToken, map[string]string{"name": "Alice L."})
	require.Equal(t, http.StatusOK, rec.Code)
	var user domain.User
	decode(t, rec, &user)
	assert.Equal(t, "Alice L.", user.Name)

	rec = api.do(http.MethodPatch, "/api/v1/users/me", alice.AccessToken, map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFullProfileViewer(t *testing.T) {
	api := newTestAPI(t, nil)
	alice := api.signUp("alice")
	bob := api.signUp("bob")

	rec := api.do(http.MethodPost, "/api/v1/users/"+alice.ID+"/follow", bob.AccessToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/users/"+alice.ID+"/full-profile", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var anon domain.FullUserProfile
	decode(t, rec, &anon)
	assert.Nil(t, anon.IsFollowing)
	assert.Equal(t, 1, anon.FollowersCount)
	assert.Empty(t, anon.RecentReviews)

	rec = api.do(http.MethodGet, "/api/v1/users/"+alice.ID+"/full-profile", bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var viewed domain.FullUserProfile
	decode(t, rec, &viewed)
	require.NotNil(t, viewed.IsFollowing)
	assert.True(t, *viewed.IsFollowing)

	// A broken token on an optional route is treated as anonymous.
	rec = api.do(http.MethodGet, "/api/v1/users/"+alice.ID+"/full-profile", "garbage", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchUsers(t *testing.T) {
	api := newTestAPI(t, nil)
	api.signUp("reader-one")
	api.signUp("reader-two")
	api.signUp("writer")

	rec := api.do(http.MethodGet, "/api/v1/users/search?q=READER&limit=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var first pagination.Page[domain.UserSummary]
	decode(t, rec, &first)
	require.Len(t, first.Data, 1)
	require.True(t, first.HasNextPage)
	require.NotNil(t, first.NextCursor)

	rec = api.do(http.MethodGet, "/api/v1/users/search?q=reader&limit=1&cursor="+*first.NextCursor, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var second pagination.Page[domain.UserSummary]
	decode(t, rec, &second)
	require.Len(t, second.Data, 1)
	assert.False(t, second.HasNextPage)
	assert.NotEqual(t, first.Data[0].ID, second.Data[0].ID)

	rec = api.do(http.MethodGet, "/api/v1/users/search?q=reader&limit=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/users/search?q=reader&cursor=nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CURSOR", errorOf(t, rec).Error.Code)
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/me/profile-picture", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpdateProfilePicture(t *testing.T) {
	api := newTestAPI(t, nil)
	alice := api.signUp("alice")

	rec := api.send(uploadRequest(t, "me.png", pngHeader), alice.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var user domain.User
	decode(t, rec, &user)
	require.NotNil(t, user.ProfilePicture)
	assert.True(t, strings.HasPrefix(*user.ProfilePicture, "https://cdn.example.com/users/"))
	assert.True(t, strings.HasSuffix(*user.ProfilePicture, ".png"))

	rec = api.send(uploadRequest(t, "again.png", pngHeader), alice.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{*user.ProfilePicture}, api.objects.deleted)
}

func TestUpdateProfilePictureRejects(t *testing.T) {
	api := newTestAPI(t, nil)
	alice := api.signUp("alice")

	rec := api.send(uploadRequest(t, "notes.txt", []byte("just some text")), alice.AccessToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_IMAGE_TYPE", errorOf(t, rec).Error.Code)

	big := append(append([]byte{}, pngHeader...), make([]byte, 2<<20)...)
	rec = api.send(uploadRequest(t, "big.png", big), alice.AccessToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "IMAGE_TOO_LARGE", errorOf(t, rec).Error.Code)

	assert.Empty(t, api.objects.uploads)
}

func TestDeleteMe(t *testing.T) {
	api := newTestAPI(t, nil)
	alice := api.signUp("alice")

	rec := api.do(http.MethodDelete, "/api/v1/users/me", alice.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/users/"+alice.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/auth", "", map[string]string{"email": "alice@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteMeLeavesCopiedPictureURL(t *testing.T) {
	api := newTestAPI(t, nil)
	alice := api.signUp("alice")
	bob := api.signUp("bob")

	rec := api.send(uploadRequest(t, "me.png", pngHeader), alice.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var owner domain.User
	decode(t, rec, &owner)

	rec = api.do(http.MethodPatch, "/api/v1/users/me", bob.AccessToken, map[string]any{"profilePicture": *owner.ProfilePicture})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodDelete, "/api/v1/users/me", bob.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, api.objects.deleted)
}
