// Package client is a small HTTP client for the GophNotes API, used by the
// operator CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/atinyakov/GophNotes/internal/models"
)

// Kinds accepted by the generic record calls.
const (
	Notes     = "notes"
	Bookmarks = "bookmarks"
)

// Client calls the API on behalf of the user owning Token.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Token   string
}

// New returns a Client for baseURL authenticating with token.
func New(baseURL, token string) *Client {
	return &Client{HTTP: http.DefaultClient, BaseURL: strings.TrimRight(baseURL, "/"), Token: token}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error: %d %s", e.Status, e.Body)
}

// ListNotes returns the caller's notes matching q and tags.
func (c *Client) ListNotes(ctx context.Context, q, tags string) ([]models.Note, error) {
	var notes []models.Note
	err := c.do(ctx, http.MethodGet, listPath(Notes, q, tags), nil, &notes)
	return notes, err
}

// CreateNote creates a note.
func (c *Client) CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	var n models.Note
	if err := c.do(ctx, http.MethodPost, "/api/notes", in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListBookmarks returns the caller's bookmarks matching q and tags.
func (c *Client) ListBookmarks(ctx context.Context, q, tags string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := c.do(ctx, http.MethodGet, listPath(Bookmarks, q, tags), nil, &bookmarks)
	return bookmarks, err
}

// CreateBookmark creates a bookmark. An empty title is derived by the server.
func (c *Client) CreateBookmark(ctx context.Context, in models.BookmarkInput) (*models.Bookmark, error) {
	var b models.Bookmark
	if err := c.do(ctx, http.MethodPost, "/api/bookmarks", in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes the record of the given kind and returns the server's
// confirmation message.
func (c *Client) Delete(ctx context.Context, kind, id string) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodDelete, "/api/"+kind+"/"+url.PathEscape(id), nil, &res)
	return res.Message, err
}

func listPath(kind, q, tags string) string {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	if tags != "" {
		v.Set("tags", tags)
	}
	p := "/api/" + kind
	if len(v) > 0 {
		p += "?" + v.Encode()
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}
