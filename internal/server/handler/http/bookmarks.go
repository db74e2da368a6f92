package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/GophNotes/internal/middleware"
	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BookmarkService defines the bookmark operations required by the
// BookmarkHandler.
type BookmarkService interface {
	List(ctx context.Context, owner string, f models.ListFilter) ([]models.Bookmark, error)
	Get(ctx context.Context, owner, id string) (*models.Bookmark, error)
	Create(ctx context.Context, owner string, in models.BookmarkInput) (*models.Bookmark, error)
	Update(ctx context.Context, owner, id string, p models.BookmarkPatch) (*models.Bookmark, error)
	Delete(ctx context.Context, owner, id string) error
}

// BookmarkHandler handles HTTP requests for /api/bookmarks.
type BookmarkHandler struct {
	BookmarkService BookmarkService
	Logger          *zap.Logger
}

const bookmarkNotFound = "Bookmark not found"

func (h *BookmarkHandler) log() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// List handles GET /api/bookmarks?q=&tags=.
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())
	f := models.NewListFilter(r.URL.Query().Get("q"), r.URL.Query().Get("tags"))

	bookmarks, err := h.BookmarkService.List(r.Context(), owner, f)
	if err != nil {
		failure(w, h.log(), "list bookmarks", owner, bookmarkNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

// Get handles GET /api/bookmarks/{id}.
func (h *BookmarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	b, err := h.BookmarkService.Get(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		failure(w, h.log(), "get bookmark", owner, bookmarkNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Create handles POST /api/bookmarks. An omitted title is derived from the
// page before the bookmark is stored.
func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	var in models.BookmarkInput
	if !decodeBody(w, r, &in) {
		return
	}

	b, err := h.BookmarkService.Create(r.Context(), owner, in)
	if err != nil {
		failure(w, h.log(), "create bookmark", owner, bookmarkNotFound, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// Update handles PUT and PATCH /api/bookmarks/{id}.
func (h *BookmarkHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	var p models.BookmarkPatch
	if !decodePatch(w, r, &p) {
		return
	}

	b, err := h.BookmarkService.Update(r.Context(), owner, chi.URLParam(r, "id"), p)
	if err != nil {
		failure(w, h.log(), "update bookmark", owner, bookmarkNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Delete handles DELETE /api/bookmarks/{id}.
func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	if err := h.BookmarkService.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		failure(w, h.log(), "delete bookmark", owner, bookmarkNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Bookmark deleted"})
}
