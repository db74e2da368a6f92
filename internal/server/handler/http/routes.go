package http

import (
	"net/http"

	"github.com/atinyakov/GophNotes/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the notes
// and bookmarks API.
//
// Routes (identical for /api/notes and /api/bookmarks):
//
//	GET    /api/{kind}        → List (q, tags query parameters)
//	GET    /api/{kind}/{id}   → Get
//	POST   /api/{kind}        → Create
//	PUT    /api/{kind}/{id}   → Update
//	PATCH  /api/{kind}/{id}   → Update
//	DELETE /api/{kind}/{id}   → Delete
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json"): rejects non-JSON bodies
//  2. WithRequestLogging(logger): logs incoming requests
//  3. BearerAuth(verifier): resolves the caller's identity (under /api)
func NewRouter(
	notes *NoteHandler,
	bookmarks *BookmarkHandler,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow request bodies with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Every record route acts on behalf of a verified user
		r.Use(middleware.BearerAuth(verifier))

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", notes.List)
			r.Post("/", notes.Create)
			r.Get("/{id}", notes.Get)
			r.Put("/{id}", notes.Update)
			r.Patch("/{id}", notes.Update)
			r.Delete("/{id}", notes.Delete)
		})

		r.Route("/bookmarks", func(r chi.Router) {
			r.Get("/", bookmarks.List)
			r.Post("/", bookmarks.Create)
			r.Get("/{id}", bookmarks.Get)
			r.Put("/{id}", bookmarks.Update)
			r.Patch("/{id}", bookmarks.Update)
			r.Delete("/{id}", bookmarks.Delete)
		})
	})

	return r
}
