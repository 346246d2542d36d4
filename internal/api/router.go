package api

import (
	"net/http"

	"github.com/bfloydd/coalesce/internal/blockservice"
	"github.com/bfloydd/coalesce/internal/noteservice"
	"github.com/bfloydd/coalesce/internal/render"
	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, blocks *blockservice.Service, renderer *render.Renderer, defaults blockservice.Options, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, blocks, renderer, defaults)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/*", h.GetNote)
	r.Put("/notes/*", h.UpdateNote)
	r.Delete("/notes/*", h.DeleteNote)

	// Search.
	r.Get("/search", h.Search)

	// Backlink block views.
	r.Get("/backlinks/*", h.Backlinks)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
