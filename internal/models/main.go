// Package models defines the core data structures for notes and bookmarks
// and the filters used to list them.
package models

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a record does not exist or is not owned by
// the caller. The two cases are never distinguished.
var ErrNotFound = errors.New("record not found")

// Note is a free-form text record owned by a single user.
type Note struct {
	// ID is the store-assigned unique identifier.
	ID string `json:"id"`
	// Owner is the identifier of the user who created the note.
	Owner string `json:"owner"`
	// Title is the non-empty note title.
	Title string `json:"title"`
	// Content is the non-empty note body.
	Content string `json:"content"`
	// Tags holds lowercase tag tokens in the order they were supplied.
	Tags []string `json:"tags"`
	// IsFavorite marks the note as a favorite.
	IsFavorite bool `json:"isFavorite"`
	// CreatedAt is set by the store on insert.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is refreshed by the store on every mutation.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Bookmark is a URL record owned by a single user.
type Bookmark struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	IsFavorite  bool      `json:"isFavorite"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NoteInput is the allow-listed payload accepted when creating a note.
type NoteInput struct {
	Title      string   `json:"title" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	Tags       []string `json:"tags"`
	IsFavorite bool     `json:"isFavorite"`
}

// NotePatch is the allow-listed payload for a partial note update.
// Nil fields are left untouched.
type NotePatch struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Tags       *[]string `json:"tags"`
	IsFavorite *bool     `json:"isFavorite"`
}

// BookmarkInput is the allow-listed payload accepted when creating a bookmark.
// Title may be empty, in which case it is derived from the page.
type BookmarkInput struct {
	URL         string   `json:"url" validate:"required,weburl"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	IsFavorite  bool     `json:"isFavorite"`
}

// BookmarkPatch is the allow-listed payload for a partial bookmark update.
type BookmarkPatch struct {
	URL         *string   `json:"url"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	IsFavorite  *bool     `json:"isFavorite"`
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ListFilter holds the optional search and tag filters for a list query.
// A zero ListFilter matches every record of the owner.
type ListFilter struct {
	// Search is the free-text query. Empty means no text predicate.
	Search string
	// Tags holds normalized tag tokens. Empty means no tag predicate.
	Tags []string
}

// NewListFilter builds a ListFilter from the raw q and tags query parameters.
// tags is split on commas; tokens are trimmed, lowercased and dropped when empty.
func NewListFilter(q, tags string) ListFilter {
	f := ListFilter{Search: strings.TrimSpace(q)}
	if tags == "" {
		return f
	}
	for _, t := range strings.Split(tags, ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			f.Tags = append(f.Tags, t)
		}
	}
	return f
}

// NormalizeTags lowercases and trims every tag, dropping empty ones.
// It always returns a non-nil slice.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
