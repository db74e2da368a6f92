// Package http provides the owner-scoped HTTP handlers for notes and
// bookmarks and the router that mounts them.
package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/GophNotes/internal/middleware"
	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NoteService defines the note operations required by the NoteHandler.
// owner is always the verified identity of the caller.
type NoteService interface {
	List(ctx context.Context, owner string, f models.ListFilter) ([]models.Note, error)
	Get(ctx context.Context, owner, id string) (*models.Note, error)
	Create(ctx context.Context, owner string, in models.NoteInput) (*models.Note, error)
	Update(ctx context.Context, owner, id string, p models.NotePatch) (*models.Note, error)
	Delete(ctx context.Context, owner, id string) error
}

// NoteHandler handles HTTP requests for /api/notes.
type NoteHandler struct {
	// NoteService performs the underlying note operations.
	NoteService NoteService
	// Logger records store faults. A nil Logger discards them.
	Logger *zap.Logger
}

const noteNotFound = "Note not found"

func (h *NoteHandler) log() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// List handles GET /api/notes?q=&tags=.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())
	f := models.NewListFilter(r.URL.Query().Get("q"), r.URL.Query().Get("tags"))

	notes, err := h.NoteService.List(r.Context(), owner, f)
	if err != nil {
		failure(w, h.log(), "list notes", owner, noteNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// Get handles GET /api/notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	n, err := h.NoteService.Get(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		failure(w, h.log(), "get note", owner, noteNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Create handles POST /api/notes. Only title, content, tags and isFavorite
// are read from the body; the owner always comes from the token.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	var in models.NoteInput
	if !decodeBody(w, r, &in) {
		return
	}

	n, err := h.NoteService.Create(r.Context(), owner, in)
	if err != nil {
		failure(w, h.log(), "create note", owner, noteNotFound, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// Update handles PUT and PATCH /api/notes/{id} with partial semantics.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	var p models.NotePatch
	if !decodePatch(w, r, &p) {
		return
	}

	n, err := h.NoteService.Update(r.Context(), owner, chi.URLParam(r, "id"), p)
	if err != nil {
		failure(w, h.log(), "update note", owner, noteNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Delete handles DELETE /api/notes/{id}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserIDFromContext(r.Context())

	if err := h.NoteService.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		failure(w, h.log(), "delete note", owner, noteNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Note deleted"})
}
