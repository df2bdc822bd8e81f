// Package server provides the HTTP surface of the showreel.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/showreel/internal/app"
	"github.com/ayusman/showreel/internal/gallery"
	"github.com/ayusman/showreel/internal/server/api"
	"github.com/ayusman/showreel/internal/store"
)

// Config holds the server configuration.
type Config struct {
	App *app.App
	// StaticDir is served at / when set.
	StaticDir string
	// Textures stores uploads; uploads are disabled when nil.
	Textures *gallery.Textures
	// MaxUploadBytes bounds POST /api/uploads.
	MaxUploadBytes int64
}

// Server represents the HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	frames *FrameHub
	start  time.Time
}

// New creates a new Server and registers its frame hub as a sink of the App.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		frames: NewFrameHub(),
		start:  time.Now(),
	}
	config.App.AddSink(s.frames)
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	a := s.config.App

	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/state", s.handleState)
	s.mux.Handle("/api/items", api.NewItemHandler(a))

	var settings *store.SettingsRepository
	if st := a.Store(); st != nil {
		settings = st.Settings()
	}
	s.mux.Handle("/api/tracking", api.NewTrackingHandler(a, settings))

	s.mux.Handle("/api/frames", s.frames)
	s.mux.Handle("/api/overlay", NewOverlayHandler(a.Preview()))

	if s.config.Textures != nil {
		s.mux.Handle("/api/uploads", api.NewUploadHandler(s.config.Textures, a, s.config.MaxUploadBytes))
		uploads := http.FileServer(http.Dir(s.config.Textures.Dir()))
		s.mux.Handle("/uploads/", http.StripPrefix("/uploads/", uploads))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Frames returns the websocket frame hub.
func (s *Server) Frames() *FrameHub {
	return s.frames
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status":   "ok",
		"uptime":   time.Since(s.start).String(),
		"tracking": s.config.App.IsTracking(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleState handles GET /api/state with the latest frame minus item geometry.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.config.App.LastFrame().Summary()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Serve runs the HTTP server on addr until ctx is done, then shuts it down.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.frames.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
