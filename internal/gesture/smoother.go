// Package gesture turns raw hand landmarks into smoothed, level-valued control samples.
package gesture

// SmoothedState is the low-pass filtered hand signal.
type SmoothedState struct {
	Distance float64
	X        float64
	Y        float64
}

// SmootherConfig holds the filter coefficients and idle targets.
type SmootherConfig struct {
	// TrackingAlpha applies to distance, x and y while a hand is visible.
	TrackingAlpha float64
	// IdleDistanceAlpha and IdlePositionAlpha apply while no hand is visible.
	IdleDistanceAlpha float64
	IdlePositionAlpha float64
	// Idle is the rest state the filter decays toward.
	Idle SmoothedState
}

// DefaultSmootherConfig returns the stock coefficients.
func DefaultSmootherConfig() SmootherConfig {
	return SmootherConfig{
		TrackingAlpha:     0.25,
		IdleDistanceAlpha: 0.1,
		IdlePositionAlpha: 0.05,
		Idle:              SmoothedState{Distance: 0.1, X: 0.5, Y: 0.5},
	}
}

// EMA advances a first-order exponential moving average by one step.
func EMA(state, raw, alpha float64) float64 {
	return state + (raw-state)*alpha
}

// Smoother applies the tracking and idle-decay regimes. It holds no state of
// its own; callers own the SmoothedState.
type Smoother struct {
	config SmootherConfig
}

// NewSmoother creates a Smoother with the given coefficients.
func NewSmoother(config SmootherConfig) *Smoother {
	return &Smoother{config: config}
}

// Track moves state toward a fresh reading.
func (s *Smoother) Track(state, raw SmoothedState) SmoothedState {
	a := s.config.TrackingAlpha
	return SmoothedState{
		Distance: EMA(state.Distance, raw.Distance, a),
		X:        EMA(state.X, raw.X, a),
		Y:        EMA(state.Y, raw.Y, a),
	}
}

// Decay relaxes state toward the idle rest values.
func (s *Smoother) Decay(state SmoothedState) SmoothedState {
	idle := s.config.Idle
	return SmoothedState{
		Distance: EMA(state.Distance, idle.Distance, s.config.IdleDistanceAlpha),
		X:        EMA(state.X, idle.X, s.config.IdlePositionAlpha),
		Y:        EMA(state.Y, idle.Y, s.config.IdlePositionAlpha),
	}
}

// Idle returns the configured rest state.
func (s *Smoother) Idle() SmoothedState {
	return s.config.Idle
}
