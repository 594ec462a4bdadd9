package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/kennithz884/snapmind/internal/library"
)

// ImageHandler serves stored screenshot files from the library.
type ImageHandler struct {
	files *library.FS
}

// NewImageHandler creates a handler backed by the given library.
func NewImageHandler(files *library.FS) *ImageHandler {
	return &ImageHandler{files: files}
}

// ServeFile handles GET /images/{filename}. Filenames are validated by the
// library layer, so traversal attempts fail before touching the disk.
func (h *ImageHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	abs, err := h.files.Path(filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", library.MIMEType(filename))
	http.ServeFile(w, r, abs)
}
