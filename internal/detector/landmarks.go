// Package detector provides hand detection interfaces and landmark types.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Palm is the landmark used as the hand centre for rotation.
const Palm = Wrist

// HandConnections lists the landmark pairs drawn as the hand skeleton.
var HandConnections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// Point3D represents a landmark. X and Y are normalized to the frame, Z is
// relative depth and unused by the transform pipeline.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// distance2D calculates the Euclidean distance between two points in the image plane.
func distance2D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PinchDistance returns the normalized distance between the thumb and index tips.
func (h *HandLandmarks) PinchDistance() float64 {
	return distance2D(h.Points[ThumbTip], h.Points[IndexTip])
}

// Valid reports whether the landmarks consumed by the pipeline are finite and
// inside [-tolerance, 1+tolerance].
func (h *HandLandmarks) Valid(tolerance float64) bool {
	if h == nil {
		return false
	}
	for _, idx := range [...]int{Palm, ThumbTip, IndexTip} {
		p := h.Points[idx]
		if !inRange(p.X, tolerance) || !inRange(p.Y, tolerance) {
			return false
		}
	}
	return true
}

func inRange(v, tolerance float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= -tolerance && v <= 1+tolerance
}

// Mirrored returns a copy with every X flipped to match a mirrored preview.
func (h HandLandmarks) Mirrored() HandLandmarks {
	for i := range h.Points {
		h.Points[i].X = 1 - h.Points[i].X
	}
	return h
}
