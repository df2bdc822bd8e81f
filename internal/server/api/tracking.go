package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/ayusman/showreel/internal/store"
)

// Tracker starts and stops hand tracking.
type Tracker interface {
	IsTracking() bool
	SetTracking(ctx context.Context, enabled bool) error
}

// TrackingHandler handles /api/tracking.
type TrackingHandler struct {
	tracker  Tracker
	settings *store.SettingsRepository
}

// NewTrackingHandler creates a new TrackingHandler. settings may be nil; when
// set, the requested state is remembered across restarts.
func NewTrackingHandler(tracker Tracker, settings *store.SettingsRepository) *TrackingHandler {
	return &TrackingHandler{tracker: tracker, settings: settings}
}

type trackingRequest struct {
	Enabled *bool `json:"enabled"`
}

type trackingResponse struct {
	Enabled bool `json:"enabled"`
}

// ServeHTTP implements the http.Handler interface.
func (h *TrackingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, trackingResponse{Enabled: h.tracker.IsTracking()})
	case http.MethodPost:
		h.set(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TrackingHandler) set(w http.ResponseWriter, r *http.Request) {
	var req trackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	if err := h.tracker.SetTracking(r.Context(), *req.Enabled); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	if h.settings != nil {
		if err := h.settings.SetBool(store.SettingTrackingEnabled, *req.Enabled); err != nil {
			log.Printf("Failed to remember tracking state: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, trackingResponse{Enabled: h.tracker.IsTracking()})
}
