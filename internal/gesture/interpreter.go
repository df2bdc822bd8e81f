package gesture

import (
	"github.com/ayusman/showreel/internal/detector"
)

// Position is a normalized screen position.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sample is the control signal produced once per detection tick. Every field
// is populated whether or not a hand is present.
type Sample struct {
	Present  bool     `json:"present"`
	Distance float64  `json:"distance"`
	Position Position `json:"position"`
}

// IdleSample returns the absent sample matching a smoother at rest.
func IdleSample(idle SmoothedState) Sample {
	return Sample{
		Present:  false,
		Distance: idle.Distance,
		Position: Position{X: idle.X, Y: idle.Y},
	}
}

// Interpreter converts detection results into samples. It owns the smoothed
// state and must only be driven from the detection loop.
type Interpreter struct {
	smoother  *Smoother
	state     SmoothedState
	tolerance float64
}

// NewInterpreter creates an Interpreter whose state starts at the idle rest
// values. tolerance widens the accepted landmark range (see detector.HandLandmarks.Valid).
func NewInterpreter(smoother *Smoother, tolerance float64) *Interpreter {
	return &Interpreter{
		smoother:  smoother,
		state:     smoother.Idle(),
		tolerance: tolerance,
	}
}

// Update advances the filter with one detection result. A nil or malformed
// hand counts as absent.
//
// The x coordinate of a present sample is mirrored (1 - x) to match the
// mirrored camera preview; rotation mapping downstream relies on it.
func (i *Interpreter) Update(hand *detector.HandLandmarks) Sample {
	if hand == nil || !hand.Valid(i.tolerance) {
		i.state = i.smoother.Decay(i.state)
		return Sample{
			Present:  false,
			Distance: i.state.Distance,
			Position: Position{X: i.state.X, Y: i.state.Y},
		}
	}

	palm := hand.Points[detector.Palm]
	i.state = i.smoother.Track(i.state, SmoothedState{
		Distance: hand.PinchDistance(),
		X:        palm.X,
		Y:        palm.Y,
	})

	return Sample{
		Present:  true,
		Distance: i.state.Distance,
		Position: Position{X: 1 - i.state.X, Y: i.state.Y},
	}
}

// UpdateFirst is Update over a detector result, consuming only the first hand.
func (i *Interpreter) UpdateFirst(hands []detector.HandLandmarks) Sample {
	if len(hands) == 0 {
		return i.Update(nil)
	}
	return i.Update(&hands[0])
}

// Smoothed returns the current filter state.
func (i *Interpreter) Smoothed() SmoothedState {
	return i.state
}
