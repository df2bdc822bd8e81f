package server

import (
	"fmt"
	"net/http"

	"github.com/ayusman/showreel/internal/overlay"
)

// OverlayHandler serves the overlay preview as MJPEG.
type OverlayHandler struct {
	buffer *overlay.Buffer
}

// NewOverlayHandler creates a new OverlayHandler reading from buffer.
func NewOverlayHandler(buffer *overlay.Buffer) *OverlayHandler {
	return &OverlayHandler{buffer: buffer}
}

// ServeHTTP streams every new preview to the client until it disconnects.
func (h *OverlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	var seq uint64
	for {
		frame, next, err := h.buffer.Next(r.Context(), seq)
		if err != nil {
			return
		}
		seq = next

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
		if _, err := w.Write(frame); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
