// Package render defines what the render loop hands to its consumers.
package render

import (
	"encoding/json"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/showreel/internal/gesture"
	"github.com/ayusman/showreel/internal/sphere"
	"github.com/ayusman/showreel/internal/transform"
)

// Frame is the complete scene state for one render tick.
type Frame struct {
	Tick          uint64
	Time          time.Time
	Delta         time.Duration
	Transform     transform.State
	Sample        gesture.Sample
	LayoutVersion uint64
	Items         []sphere.Facing
}

// Sink consumes frames. Render is called on the render loop and must not
// block; sinks that cannot keep up drop frames.
type Sink interface {
	Render(Frame)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Frame)

// Render calls f(frame).
func (f SinkFunc) Render(frame Frame) {
	f(frame)
}

// Vec is the wire form of a vector.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ToVec converts a gonum vector to its wire form.
func ToVec(v r3.Vec) Vec {
	return Vec{X: v.X, Y: v.Y, Z: v.Z}
}

type itemJSON struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	World   Vec    `json:"world"`
	Right   Vec    `json:"right"`
	Up      Vec    `json:"up"`
	Forward Vec    `json:"forward"`
}

type frameJSON struct {
	Tick          uint64          `json:"tick"`
	Time          time.Time       `json:"time"`
	DeltaMS       float64         `json:"delta_ms"`
	Transform     transform.State `json:"transform"`
	Sample        gesture.Sample  `json:"sample"`
	LayoutVersion uint64          `json:"layout_version"`
	Items         []itemJSON      `json:"items"`
}

// MarshalJSON encodes the frame with lower-case vector fields and the delta
// in milliseconds.
func (f Frame) MarshalJSON() ([]byte, error) {
	items := make([]itemJSON, len(f.Items))
	for i, it := range f.Items {
		items[i] = itemJSON{
			ID:      it.ID,
			URL:     it.URL,
			World:   ToVec(it.World),
			Right:   ToVec(it.Right),
			Up:      ToVec(it.Up),
			Forward: ToVec(it.Forward),
		}
	}
	return json.Marshal(frameJSON{
		Tick:          f.Tick,
		Time:          f.Time,
		DeltaMS:       float64(f.Delta) / float64(time.Millisecond),
		Transform:     f.Transform,
		Sample:        f.Sample,
		LayoutVersion: f.LayoutVersion,
		Items:         items,
	})
}

// Summary drops the per-item geometry.
func (f Frame) Summary() Frame {
	f.Items = nil
	return f
}
