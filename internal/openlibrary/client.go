package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrNotFound = errors.New("open library: not found")

// UpstreamError is any non-404 failure talking to Open Library.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("open library: %v", e.Err)
	}
	return fmt.Sprintf("open library: unexpected status %d", e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) EditionByISBN(ctx context.Context, isbn string) (*Edition, error) {
	var e Edition
	if err := c.get(ctx, "/isbn/"+url.PathEscape(isbn)+".json", &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) EditionByOLID(ctx context.Context, olid string) (*Edition, error) {
	var e Edition
	if err := c.get(ctx, "/books/"+url.PathEscape(olid)+".json", &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))

	var r SearchResponse
	if err := c.get(ctx, "/search.json?"+params.Encode(), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) AuthorName(ctx context.Context, authorID string) (string, error) {
	var a struct {
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/authors/"+url.PathEscape(authorID)+".json", &a); err != nil {
		return "", err
	}
	return a.Name, nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return &UpstreamError{Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &UpstreamError{Status: resp.StatusCode, Err: fmt.Errorf("decoding %s: %w", path, err)}
	}
	return nil
}
