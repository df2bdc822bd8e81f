package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/ayusman/showreel/internal/gallery"
)

// DefaultMaxUploadBytes bounds a multipart upload request.
const DefaultMaxUploadBytes = 64 << 20

// UploadHandler handles POST /api/uploads: every file in the "images" field
// becomes an item and the uploads replace the current set.
type UploadHandler struct {
	textures *gallery.Textures
	items    Items
	maxBytes int64
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(textures *gallery.Textures, items Items, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadHandler{textures: textures, items: items, maxBytes: maxBytes}
}

// ServeHTTP implements the http.Handler interface.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No images uploaded")
		return
	}

	items := make([]gallery.Item, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read "+fh.Filename)
			return
		}
		item, err := h.textures.Import(f, fh.Filename)
		f.Close()
		if err != nil {
			log.Printf("Upload rejected: %v", err)
			if errors.Is(err, gallery.ErrUnsupportedImage) {
				writeError(w, http.StatusUnsupportedMediaType, "Unsupported image: "+fh.Filename)
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to store "+fh.Filename)
			return
		}
		items = append(items, item)
	}

	saved, err := h.items.SetItems(items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save items")
		return
	}

	writeJSON(w, http.StatusCreated, itemSetResponse{Items: saved})
}
