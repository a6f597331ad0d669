package openlibrary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /isbn/9780140328721.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"title": "Fantastic Mr. Fox",
			"description": {"type": "/type/text", "value": "A fox outwits three farmers."},
			"authors": [{"key": "/authors/OL45804A"}],
			"covers": [8739161],
			"isbn_13": ["9780140328721"],
			"works": [{"key": "/works/OL45804W"}]
		}`))
	})
	mux.HandleFunc("GET /books/OL1M.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"title": "Plain", "description": "just text"}`))
	})
	mux.HandleFunc("GET /authors/OL45804A.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name": "Roald Dahl"}`))
	})
	mux.HandleFunc("GET /search.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dune", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"numFound": 201, "docs": [{"title": "Dune", "author_name": ["Frank Herbert"], "key": "/works/OL1W", "edition_count": 3}]}`))
	})
	mux.HandleFunc("GET /books/BROKEN.json", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestEditionByISBN(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	e, err := c.EditionByISBN(context.Background(), "9780140328721")
	require.NoError(t, err)
	assert.Equal(t, []string{"OL45804A"}, e.AuthorIDs())

	d := e.Details([]string{"Roald Dahl"})
	assert.Equal(t, "Fantastic Mr. Fox", d.Title)
	assert.Equal(t, "A fox outwits three farmers.", d.Description)
	assert.Equal(t, []string{"Roald Dahl"}, d.Authors)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/8739161-L.jpg", d.CoverURL)
	assert.Equal(t, "OL45804W", d.WorkID)
	assert.Equal(t, []string{}, d.ISBN10)
}

func TestEditionPlainDescription(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	e, err := c.EditionByOLID(context.Background(), "OL1M")
	require.NoError(t, err)
	assert.Equal(t, "just text", e.Details(nil).Description)
}

func TestAuthorName(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	name, err := c.AuthorName(context.Background(), "OL45804A")
	require.NoError(t, err)
	assert.Equal(t, "Roald Dahl", name)
}

func TestSearchPages(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	r, err := c.Search(context.Background(), "dune", 2)
	require.NoError(t, err)

	page := r.Page(2)
	assert.Equal(t, 201, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 100, page.PerPage)
	require.Len(t, page.Results, 1)
	assert.Equal(t, []string{"Frank Herbert"}, page.Results[0].AuthorNames)
	assert.Equal(t, []string{}, page.Results[0].Language)
}

func TestErrorsAreClassified(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	_, err := c.EditionByOLID(context.Background(), "MISSING")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.EditionByOLID(context.Background(), "BROKEN")
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusServiceUnavailable, upstream.Status)
}
