// Package transform integrates gesture samples into the sphere group's
// scale and rotation.
package transform

import (
	"math"
	"time"

	"github.com/ayusman/showreel/internal/gesture"
)

// State is the sphere group transform. Rotations are in radians.
type State struct {
	Scale     float64 `json:"scale"`
	RotationX float64 `json:"rotation_x"`
	RotationY float64 `json:"rotation_y"`
}

// InitialState is the transform of a freshly created group.
var InitialState = State{Scale: 1}

// Config holds the driver tuning.
type Config struct {
	// DistanceMin and DistanceMax bound the pinch distance mapped onto zoom.
	DistanceMin float64
	DistanceMax float64
	MinScale    float64
	MaxScale    float64
	// RotationSensitivity maps a position offset from center to radians.
	RotationSensitivity float64
	TrackingLerp        float64
	// IdleAngularVelocity is the auto-rotation speed in rad/s.
	IdleAngularVelocity float64
	IdleScale           float64
	IdleScaleRelax      float64
	IdleRotationRelax   float64
	// FrameCompensation rescales per-tick factors by elapsed time so the feel
	// does not depend on the render rate. Off, every factor applies once per
	// tick as tuned for ReferenceFPS.
	FrameCompensation bool
	ReferenceFPS      float64
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		DistanceMin:         0.05,
		DistanceMax:         0.40,
		MinScale:            0.9,
		MaxScale:            24.0,
		RotationSensitivity: 5.5,
		TrackingLerp:        0.15,
		IdleAngularVelocity: 0.12,
		IdleScale:           1.1,
		IdleScaleRelax:      0.05,
		IdleRotationRelax:   0.04,
		ReferenceFPS:        60,
	}
}

// Driver advances the transform once per render tick. It is owned by the
// render loop and is not safe for concurrent use.
type Driver struct {
	config Config
	state  State
}

// NewDriver creates a Driver at InitialState.
func NewDriver(config Config) *Driver {
	return &Driver{config: config, state: InitialState}
}

// Step consumes the latest sample and returns the new transform.
func (d *Driver) Step(sample gesture.Sample, dt time.Duration) State {
	c := d.config

	if sample.Present {
		z := d.ZoomFactor(sample.Distance)
		targetScale := d.TargetScale(z)
		targetRotX := (sample.Position.Y - 0.5) * c.RotationSensitivity
		targetRotY := (sample.Position.X - 0.5) * c.RotationSensitivity

		f := d.factor(c.TrackingLerp, dt)
		d.state.Scale = lerp(d.state.Scale, targetScale, f)
		d.state.RotationX = lerp(d.state.RotationX, targetRotX, f)
		d.state.RotationY = lerp(d.state.RotationY, targetRotY, f)
	} else {
		d.state.RotationY += c.IdleAngularVelocity * dt.Seconds()
		d.state.Scale = lerp(d.state.Scale, c.IdleScale, d.factor(c.IdleScaleRelax, dt))
		d.state.RotationX = lerp(d.state.RotationX, 0, d.factor(c.IdleRotationRelax, dt))
	}

	d.state.Scale = clamp(d.state.Scale, c.MinScale, c.MaxScale)
	return d.state
}

// State returns the current transform.
func (d *Driver) State() State {
	return d.state
}

// Reset returns the driver to InitialState.
func (d *Driver) Reset() {
	d.state = InitialState
}

// ZoomFactor maps a pinch distance onto [0, 1].
func (d *Driver) ZoomFactor(distance float64) float64 {
	c := d.config
	return clamp((distance-c.DistanceMin)/(c.DistanceMax-c.DistanceMin), 0, 1)
}

// TargetScale maps a zoom factor onto the scale range.
func (d *Driver) TargetScale(z float64) float64 {
	c := d.config
	return c.MinScale + z*(c.MaxScale-c.MinScale)
}

func (d *Driver) factor(f float64, dt time.Duration) float64 {
	if !d.config.FrameCompensation || dt <= 0 {
		return f
	}
	return 1 - math.Pow(1-f, dt.Seconds()*d.config.ReferenceFPS)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
