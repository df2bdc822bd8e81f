package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ayusman/showreel/internal/gallery"
	"github.com/ayusman/showreel/internal/render"
)

// maxItems bounds a single PUT; the sphere gets unreadable long before this.
const maxItems = 2000

// Items is the item set the handlers operate on.
type Items interface {
	Items() []gallery.Item
	SetItems(items []gallery.Item) ([]gallery.Item, error)
	Layout() gallery.Layout
}

// ItemHandler handles /api/items.
type ItemHandler struct {
	items Items
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items Items) *ItemHandler {
	return &ItemHandler{items: items}
}

// ServeHTTP implements the http.Handler interface.
func (h *ItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("view") == "raw" {
			h.listRaw(w, r)
			return
		}
		h.layout(w, r)
	case http.MethodPut:
		h.replace(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type itemSetRequest struct {
	Items []gallery.Item `json:"items"`
}

type itemSetResponse struct {
	Items []gallery.Item `json:"items"`
}

type placementResponse struct {
	ID       string     `json:"id"`
	URL      string     `json:"url"`
	Position render.Vec `json:"position"`
}

type layoutResponse struct {
	Version uint64              `json:"version"`
	Items   []placementResponse `json:"items"`
}

// layout handles GET /api/items and returns the effective, post-duplication layout.
func (h *ItemHandler) layout(w http.ResponseWriter, r *http.Request) {
	layout := h.items.Layout()

	response := layoutResponse{
		Version: layout.Version,
		Items:   make([]placementResponse, 0, len(layout.Placements)),
	}
	for _, p := range layout.Placements {
		response.Items = append(response.Items, placementResponse{
			ID:       p.ID,
			URL:      p.URL,
			Position: render.ToVec(p.Position),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// listRaw handles GET /api/items?view=raw and returns the set as submitted.
func (h *ItemHandler) listRaw(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, itemSetResponse{Items: h.items.Items()})
}

// replace handles PUT /api/items and stages a new item set.
func (h *ItemHandler) replace(w http.ResponseWriter, r *http.Request) {
	var req itemSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Items) > maxItems {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("At most %d items are allowed", maxItems))
		return
	}
	for i, item := range req.Items {
		if item.URL == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Item %d has no url", i))
			return
		}
	}

	saved, err := h.items.SetItems(req.Items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save items")
		return
	}
	if saved == nil {
		saved = []gallery.Item{}
	}

	writeJSON(w, http.StatusAccepted, itemSetResponse{Items: saved})
}
