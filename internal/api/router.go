package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kennithz884/snapmind/internal/gallery"
	"github.com/kennithz884/snapmind/internal/library"
	"github.com/kennithz884/snapmind/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, provides the SSE endpoint and import notifications.
func NewRouter(svc *gallery.Service, files *library.FS, broker *sse.Broker, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc, broker)
	ih := NewImageHandler(files)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Catalog.
	r.Post("/screenshots", h.Import)
	r.Get("/screenshots", h.List)
	r.Get("/screenshots/grouped", h.Grouped)
	r.Get("/screenshots/{id}", h.Get)
	r.Post("/screenshots/{id}/view", h.RecordView)

	// Contextual chat.
	r.Post("/screenshots/{id}/chat", h.Chat)
	r.Get("/screenshots/{id}/chat", h.Transcript)

	// Semantic search.
	r.Post("/search", h.Search)

	// Memory resurfacing and knowledge mesh.
	r.Get("/memory", h.Memory)
	r.Get("/graph", h.Graph)

	// Stored image bytes.
	r.Get("/images/{filename}", ih.ServeFile)

	// SSE endpoint (protected by same auth middleware).
	if broker != nil {
		r.Get("/events", http.HandlerFunc(broker.ServeHTTP))
	}

	return r
}
