package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		b.objects[r.URL.Path] = body
		b.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(b.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newR2(t *testing.T) (*R2, *fakeBucket) {
	t.Helper()

	bucket := &fakeBucket{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	r2, err := NewR2(context.Background(), Options{
		Endpoint:  srv.URL,
		Region:    "auto",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "muse",
		PublicURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)
	return r2, bucket
}

func TestUploadThenDelete(t *testing.T) {
	r2, bucket := newR2(t)
	ctx := context.Background()

	key, url, err := r2.Upload(ctx, "users", ".png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "users/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+key, url)

	assert.Equal(t, []byte("png-bytes"), bucket.objects["/muse/"+key])
	assert.Equal(t, "image/png", bucket.types["/muse/"+key])

	require.NoError(t, r2.Delete(ctx, key))
	assert.Empty(t, bucket.objects)
}

func TestURL(t *testing.T) {
	r2, _ := newR2(t)
	assert.Equal(t, "https://cdn.example.com/users/abc.webp", r2.URL("users/abc.webp"))
}
