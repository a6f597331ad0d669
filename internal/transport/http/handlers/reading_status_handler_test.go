package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsm-gustavo/book-muse-backend/internal/domain"
)

func TestReadingStatusFlow(t *testing.T) {
	api := newTestAPI(t, nil)
	alice := api.signUp("alice")

	rec := api.do(http.MethodPost, "/api/v1/reading-status", alice.AccessToken, map[string]string{
		"openLibraryId": "OL1M", "status": "reading",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, "/api/v1/reading-status", alice.AccessToken, map[string]string{
		"openLibraryId": "OL1M", "status": "read",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/reading-status", alice.AccessToken, map[string]string{
		"openLibraryId": "OL2M", "status": "want_to_read",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/reading-status?status=read", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var read []domain.UserBookStatus
	decode(t, rec, &read)
	require.Len(t, read, 1)
	assert.Equal(t, "OL1M", read[0].OpenLibraryID)

	rec = api.do(http.MethodGet, "/api/v1/users/"+alice.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile domain.UserProfile
	decode(t, rec, &profile)
	assert.Equal(t, 1, profile.ReadCount)

	rec = api.do(http.MethodGet, "/api/v1/reading-status/OL2M", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status domain.UserBookStatus
	decode(t, rec, &status)
	assert.Equal(t, domain.StatusWantToRead, status.Status)

	rec = api.do(http.MethodDelete, "/api/v1/reading-status/OL2M", alice.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodDelete, "/api/v1/reading-status/OL2M", alice.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadingStatusRejectsUnknownStatus(t *testing.T) {
	api := newTestAPI(t, nil)
	alice := api.signUp("alice")

	rec := api.do(http.MethodPost, "/api/v1/reading-status", alice.AccessToken, map[string]string{
		"openLibraryId": "OL1M", "status": "abandoned",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec).Error.Fields, "status")

	rec = api.do(http.MethodGet, "/api/v1/reading-status?status=abandoned", alice.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
