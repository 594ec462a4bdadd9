package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kennithz884/snapmind/internal/apperr"
	"github.com/kennithz884/snapmind/internal/gallery"
	"github.com/kennithz884/snapmind/internal/importer"
	"github.com/kennithz884/snapmind/internal/models"
	"github.com/kennithz884/snapmind/internal/oracle"
	"github.com/kennithz884/snapmind/internal/sse"
)

const maxImportBytes = 50 << 20 // 50 MB per batch

// Handler holds API route handlers.
type Handler struct {
	svc    *gallery.Service
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil in tests.
func NewHandler(svc *gallery.Service, broker *sse.Broker) *Handler {
	return &Handler{svc: svc, broker: broker}
}

// Import handles POST /api/screenshots (multipart/form-data, field "images").
// Items that fail extraction are skipped, never the whole batch.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("batch too large or invalid multipart"))
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'images' files in multipart form"))
		return
	}

	batch := make([]importer.Image, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("unreadable upload: "+fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("unreadable upload: "+fh.Filename))
			return
		}
		batch = append(batch, importer.Image{Name: fh.Filename, Data: data})
	}

	result, err := h.svc.Import(r.Context(), batch)
	if err != nil {
		slog.Error("import failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	if h.broker != nil {
		for _, rec := range result.Inserted {
			h.broker.PublishImported(rec.ID)
		}
		h.broker.PublishImportCompleted(len(result.Inserted), result.Skipped)
	}

	writeJSON(w, http.StatusCreated, ImportResponse{
		Screenshots: result.Inserted,
		Skipped:     result.Skipped,
	})
}

// List handles GET /api/screenshots.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.All(r.Context())
	if err != nil {
		slog.Error("list screenshots failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Screenshots: recs, Total: len(recs)})
}

// Grouped handles GET /api/screenshots/grouped.
func (h *Handler) Grouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Grouped(r.Context())
	if err != nil {
		slog.Error("grouped listing failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, GroupedResponse{Groups: groups})
}

// Get handles GET /api/screenshots/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get screenshot failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// RecordView handles POST /api/screenshots/{id}/view.
func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.RecordView(r.Context(), id); err != nil {
		slog.Error("record view failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Chat handles POST /api/screenshots/{id}/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("question is required"))
		return
	}

	transcript, err := h.svc.Ask(r.Context(), id, req.Question)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("chat failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, TranscriptResponse{Messages: transcript})
}

// Transcript handles GET /api/screenshots/{id}/chat.
func (h *Handler) Transcript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	msgs := h.svc.Transcript(r.Context(), id)
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, TranscriptResponse{Messages: msgs})
}

// Search handles POST /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query is required"))
		return
	}

	id, err := h.svc.Search(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, apperr.ErrSearch) {
			// Oracle failures degrade to the no-match state; the client
			// renders "no matches" rather than an error.
			slog.Warn("search degraded to no match", slog.String("error", err.Error()))
			writeJSON(w, http.StatusOK, SearchResponse{})
			return
		}
		slog.Error("search failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	var resp SearchResponse
	if id != oracle.NoMatch {
		resp.ID = &id
	}
	writeJSON(w, http.StatusOK, resp)
}

// Memory handles GET /api/memory. ?refresh=1 resurfaces a new random card.
func (h *Handler) Memory(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") != ""
	rec, err := h.svc.Memory(r.Context(), refresh)
	if err != nil {
		slog.Error("memory failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, MemoryResponse{Screenshot: rec})
}

// Graph handles GET /api/graph.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	nodes, links, err := h.svc.Graph(r.Context())
	if err != nil {
		slog.Error("graph failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, GraphResponse{Nodes: nodes, Links: links})
}
