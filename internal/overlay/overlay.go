// Package overlay renders the mirrored camera preview with the hand skeleton.
package overlay

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/showreel/internal/detector"
)

// Default preview size.
const (
	DefaultWidth  = 360
	DefaultHeight = 202
)

var (
	connectionColor = color.RGBA{0, 0, 0, 255}
	landmarkColor   = color.RGBA{255, 255, 255, 255}
)

const (
	connectionThickness = 3
	landmarkRadius      = 4
)

// ErrEmptyFrame is returned when there is nothing to draw on.
var ErrEmptyFrame = errors.New("empty frame")

// Renderer draws preview frames. It is used only by the detection loop.
type Renderer struct {
	width    int
	height   int
	skeleton bool
}

// NewRenderer creates a Renderer producing width x height previews.
func NewRenderer(width, height int, skeleton bool) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{width: width, height: height, skeleton: skeleton}
}

// Size returns the preview size.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Render mirrors and downscales frame, draws hand on it when present, and
// returns the JPEG encoding. frame is not modified.
func (r *Renderer) Render(frame *gocv.Mat, hand *detector.HandLandmarks) ([]byte, error) {
	if frame == nil || frame.Empty() {
		return nil, ErrEmptyFrame
	}

	mirrored := gocv.NewMat()
	defer mirrored.Close()
	gocv.Flip(*frame, &mirrored, 1)

	preview := gocv.NewMat()
	defer preview.Close()
	gocv.Resize(mirrored, &preview, image.Pt(r.width, r.height), 0, 0, gocv.InterpolationLinear)

	if r.skeleton && hand != nil {
		r.drawHand(&preview, hand)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, preview)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	// GetBytes aliases C memory that Close releases
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

func (r *Renderer) drawHand(img *gocv.Mat, hand *detector.HandLandmarks) {
	points := Project(hand, r.width, r.height)

	for _, c := range detector.HandConnections {
		gocv.Line(img, points[c[0]], points[c[1]], connectionColor, connectionThickness)
	}
	for _, p := range points {
		gocv.Circle(img, p, landmarkRadius, landmarkColor, -1)
	}
}

// Project maps normalized landmarks into pixel coordinates of a mirrored
// width x height image.
func Project(hand *detector.HandLandmarks, width, height int) []image.Point {
	points := make([]image.Point, len(hand.Points))
	for i, p := range hand.Points {
		points[i] = image.Pt(int((1-p.X)*float64(width)), int(p.Y*float64(height)))
	}
	return points
}

// Buffer holds the most recent preview. The detection loop writes it and any
// number of stream clients wait on it.
type Buffer struct {
	mu      sync.Mutex
	frame   []byte
	seq     uint64
	changed chan struct{}
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{changed: make(chan struct{})}
}

// Publish replaces the held preview and wakes every waiter.
func (b *Buffer) Publish(frame []byte) {
	b.mu.Lock()
	b.frame = frame
	b.seq++
	close(b.changed)
	b.changed = make(chan struct{})
	b.mu.Unlock()
}

// Latest returns the held preview and its sequence number (0 when nothing has
// been published yet).
func (b *Buffer) Latest() ([]byte, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame, b.seq
}

// Next blocks until a preview newer than seq is published or ctx is done.
func (b *Buffer) Next(ctx context.Context, seq uint64) ([]byte, uint64, error) {
	for {
		b.mu.Lock()
		if b.seq > seq {
			frame, cur := b.frame, b.seq
			b.mu.Unlock()
			return frame, cur, nil
		}
		changed := b.changed
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, seq, ctx.Err()
		case <-changed:
		}
	}
}
