package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hsm-gustavo/book-muse-backend/internal/cache"
	"github.com/hsm-gustavo/book-muse-backend/internal/openlibrary"
	"github.com/hsm-gustavo/book-muse-backend/internal/repository/memory"
	"github.com/hsm-gustavo/book-muse-backend/internal/service"
	"github.com/hsm-gustavo/book-muse-backend/internal/transport/http/middleware"
)

type fakeObjects struct {
	uploads []string
	deleted []string
}

func (o *fakeObjects) Upload(_ context.Context, folder, ext, _ string, _ []byte) (string, string, error) {
	key := folder + "/" + uuid.NewString() + ext
	url := "https://cdn.example.com/" + key
	o.uploads = append(o.uploads, url)
	return key, url, nil
}

func (o *fakeObjects) Delete(_ context.Context, key string) error {
	o.deleted = append(o.deleted, "https://cdn.example.com/"+key)
	return nil
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	objects *fakeObjects
}

// newTestAPI wires the full router over in-memory repositories, miniredis and
// a fake Open Library upstream.
func newTestAPI(t *testing.T, upstream http.Handler) *testAPI {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := cache.NewStore(rdb, zap.NewNop())

	if upstream == nil {
		upstream = http.NotFoundHandler()
	}
	ol := httptest.NewServer(upstream)
	t.Cleanup(ol.Close)

	s := memory.NewStore()
	userRepo := memory.NewUserRepo(s)
	tokenRepo := memory.NewRefreshTokenRepo(s)
	followRepo := memory.NewFollowRepo(s)
	reviewRepo := memory.NewReviewRepo(s)
	statusRepo := memory.NewReadingStatusRepo(s)

	log := zap.NewNop()
	objects := &fakeObjects{}
	issuer := service.NewTokenIssuer("test-secret", "https://api.test", "https://api.test", time.Hour)

	profiles := service.NewProfileCache(store, followRepo, statusRepo)
	userService := service.NewUserService(userRepo, reviewRepo, statusRepo, profiles, objects, log)

	mux := http.NewServeMux()
	Router{
		Auth:          NewAuthHandler(service.NewAuthService(userRepo, tokenRepo, issuer), log),
		Users:         NewUserHandler(userService, log),
		Follows:       NewFollowHandler(service.NewFollowService(followRepo, userRepo), log),
		Reviews:       NewReviewHandler(service.NewReviewService(reviewRepo, userRepo), log),
		ReadingStatus: NewReadingStatusHandler(service.NewReadingStatusService(statusRepo), log),
		Books:         NewBookHandler(service.NewBookService(openlibrary.NewClient(ol.URL), store, time.Hour, log), log),
		RequireAuth:   middleware.Auth(issuer),
		OptionalAuth:  middleware.OptionalAuth(issuer),
		AuthLimit:     func(h http.Handler) http.Handler { return h },
	}.Mount(mux)

	return &testAPI{t: t, handler: mux, objects: objects}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, token)
}

func (a *testAPI) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

type session struct {
	ID           string
	AccessToken  string
	RefreshToken string
}

// signUp creates an account and logs in as it.
func (a *testAPI) signUp(name string) session {
	a.t.Helper()

	email := name + "@example.com"
	rec := a.do(http.MethodPost, "/api/v1/users", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var user struct {
		ID string `json:"id"`
	}
	decode(a.t, rec, &user)

	rec = a.do(http.MethodPost, "/api/v1/auth", "", map[string]string{
		"email": email, "password": "secret123",
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var pair service.TokenPair
	decode(a.t, rec, &pair)

	return session{ID: user.ID, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decode(t, rec, &body)
	return body
}
