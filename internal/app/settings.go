package app

import (
	"github.com/ayusman/showreel/internal/capture"
	"github.com/ayusman/showreel/internal/config"
	"github.com/ayusman/showreel/internal/detector"
	"github.com/ayusman/showreel/internal/gesture"
	"github.com/ayusman/showreel/internal/sphere"
	"github.com/ayusman/showreel/internal/transform"
)

// smootherConfig maps the gesture settings onto the smoother.
func smootherConfig(c *config.Config) gesture.SmootherConfig {
	g := c.Gesture
	return gesture.SmootherConfig{
		TrackingAlpha:     g.TrackingAlpha,
		IdleDistanceAlpha: g.IdleDistanceAlpha,
		IdlePositionAlpha: g.IdlePositionAlpha,
		Idle:              gesture.SmoothedState{Distance: g.IdleDistance, X: g.IdleX, Y: g.IdleY},
	}
}

// transformConfig maps the transform settings onto the driver.
func transformConfig(c *config.Config) transform.Config {
	t := c.Transform
	return transform.Config{
		DistanceMin:         t.DistanceMin,
		DistanceMax:         t.DistanceMax,
		MinScale:            t.MinScale,
		MaxScale:            t.MaxScale,
		RotationSensitivity: t.RotationSensitivity,
		TrackingLerp:        t.TrackingLerp,
		IdleAngularVelocity: t.IdleAngularVelocity,
		IdleScale:           t.IdleScale,
		IdleScaleRelax:      t.IdleScaleRelax,
		IdleRotationRelax:   t.IdleRotationRelax,
		FrameCompensation:   t.FrameCompensation,
		ReferenceFPS:        t.ReferenceFPS,
	}
}

func duplicationPolicy(c *config.Config) sphere.Policy {
	return sphere.Policy{
		Low:    c.Sphere.DuplicateLow,
		High:   c.Sphere.DuplicateHigh,
		Target: c.Sphere.DuplicateTarget,
	}
}

func cameraConfig(c *config.Config) capture.Config {
	return capture.Config{
		Device: c.Camera.Device,
		Width:  c.Camera.Width,
		Height: c.Camera.Height,
		FPS:    c.Camera.FPS,
	}
}

// detectorConfig always asks for a single hand; only the first is consumed.
func detectorConfig(c *config.Config) detector.Config {
	return detector.Config{
		MaxHands:        1,
		MinConfidence:   c.Tracking.MinConfidence,
		MinTrackingConf: c.Tracking.MinTrackingConf,
		IdleShutdown:    c.Tracking.IdleShutdown,
	}
}
