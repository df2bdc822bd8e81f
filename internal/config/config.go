// Package config holds every tunable of the showreel pipeline and loads it from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default tuning, matching the stock showreel feel.
const (
	DefaultTrackingAlpha       = 0.25
	DefaultIdleDistanceAlpha   = 0.1
	DefaultIdlePositionAlpha   = 0.05
	DefaultIdleDistance        = 0.1
	DefaultIdlePosition        = 0.5
	DefaultLandmarkTolerance   = 0.1
	DefaultDistanceMin         = 0.05
	DefaultDistanceMax         = 0.40
	DefaultMinScale            = 0.9
	DefaultMaxScale            = 24.0
	DefaultRotationSens        = 5.5
	DefaultTrackingLerp        = 0.15
	DefaultIdleAngularVel      = 0.12
	DefaultIdleScale           = 1.1
	DefaultIdleScaleRelax      = 0.05
	DefaultIdleRotationRelax   = 0.04
	DefaultReferenceFPS        = 60
	DefaultSphereRadius        = 6.2
	DefaultDuplicateLow        = 1
	DefaultDuplicateHigh       = 29
	DefaultDuplicateTarget     = 60
	DefaultCameraWidth         = 640
	DefaultCameraHeight        = 360
	DefaultCameraFPS           = 60
	DefaultOverlayWidth        = 360
	DefaultOverlayHeight       = 202
	DefaultTextureWidth        = 500
	DefaultTextureHeight       = 650
	DefaultTextureQuality      = 85
	DefaultMinConfidence       = 0.5
	DefaultMinTrackingConf     = 0.5
	DefaultInitAttempts        = 1
	DefaultInitBackoff         = 500 * time.Millisecond
	DefaultInitBackoffMax      = 8 * time.Second
	DefaultDetectorIdleTimeout = 30 * time.Second
	DefaultAddr                = ":8080"
)

// Config is the complete application configuration.
type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Server    ServerConfig    `yaml:"server"`
	Camera    CameraConfig    `yaml:"camera"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	Gesture   GestureConfig   `yaml:"gesture"`
	Transform TransformConfig `yaml:"transform"`
	Sphere    SphereConfig    `yaml:"sphere"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Uploads   UploadsConfig   `yaml:"uploads"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

// CameraConfig configures the capture device.
type CameraConfig struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// TrackingConfig configures detector startup and the detection model.
type TrackingConfig struct {
	AutoStart       bool          `yaml:"auto_start"`
	MinConfidence   float64       `yaml:"min_confidence"`
	MinTrackingConf float64       `yaml:"min_tracking_confidence"`
	InitAttempts    int           `yaml:"init_attempts"`
	InitBackoff     time.Duration `yaml:"init_backoff"`
	InitBackoffMax  time.Duration `yaml:"init_backoff_max"`
	IdleShutdown    time.Duration `yaml:"idle_shutdown"`
}

// GestureConfig configures the landmark smoother.
type GestureConfig struct {
	TrackingAlpha     float64 `yaml:"tracking_alpha"`
	IdleDistanceAlpha float64 `yaml:"idle_distance_alpha"`
	IdlePositionAlpha float64 `yaml:"idle_position_alpha"`
	IdleDistance      float64 `yaml:"idle_distance"`
	IdleX             float64 `yaml:"idle_x"`
	IdleY             float64 `yaml:"idle_y"`
	// LandmarkTolerance widens [0,1] when validating landmarks; MediaPipe
	// reports slightly out-of-frame points for partially visible hands.
	LandmarkTolerance float64 `yaml:"landmark_tolerance"`
}

// TransformConfig configures the per-tick transform integrator.
type TransformConfig struct {
	DistanceMin         float64 `yaml:"distance_min"`
	DistanceMax         float64 `yaml:"distance_max"`
	MinScale            float64 `yaml:"min_scale"`
	MaxScale            float64 `yaml:"max_scale"`
	RotationSensitivity float64 `yaml:"rotation_sensitivity"`
	TrackingLerp        float64 `yaml:"tracking_lerp"`
	IdleAngularVelocity float64 `yaml:"idle_angular_velocity"`
	IdleScale           float64 `yaml:"idle_scale"`
	IdleScaleRelax      float64 `yaml:"idle_scale_relax"`
	IdleRotationRelax   float64 `yaml:"idle_rotation_relax"`
	RenderFPS           int     `yaml:"render_fps"`
	FrameCompensation   bool    `yaml:"frame_compensation"`
	ReferenceFPS        float64 `yaml:"reference_fps"`
}

// SphereConfig configures the layout and duplication policy.
type SphereConfig struct {
	Radius          float64 `yaml:"radius"`
	DuplicateLow    int     `yaml:"duplicate_low"`
	DuplicateHigh   int     `yaml:"duplicate_high"`
	DuplicateTarget int     `yaml:"duplicate_target"`
}

// OverlayConfig configures the preview surface.
type OverlayConfig struct {
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	Skeleton bool `yaml:"skeleton"`
}

// UploadsConfig configures how uploaded images are turned into textures.
type UploadsConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Quality int    `yaml:"quality"`
	Format  string `yaml:"format"` // jpeg or webp
}

// DefaultConfig returns a Config populated with the stock tuning.
func DefaultConfig() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
		Camera: CameraConfig{
			Device: 0,
			Width:  DefaultCameraWidth,
			Height: DefaultCameraHeight,
			FPS:    DefaultCameraFPS,
		},
		Tracking: TrackingConfig{
			AutoStart:       true,
			MinConfidence:   DefaultMinConfidence,
			MinTrackingConf: DefaultMinTrackingConf,
			InitAttempts:    DefaultInitAttempts,
			InitBackoff:     DefaultInitBackoff,
			InitBackoffMax:  DefaultInitBackoffMax,
			IdleShutdown:    DefaultDetectorIdleTimeout,
		},
		Gesture: GestureConfig{
			TrackingAlpha:     DefaultTrackingAlpha,
			IdleDistanceAlpha: DefaultIdleDistanceAlpha,
			IdlePositionAlpha: DefaultIdlePositionAlpha,
			IdleDistance:      DefaultIdleDistance,
			IdleX:             DefaultIdlePosition,
			IdleY:             DefaultIdlePosition,
			LandmarkTolerance: DefaultLandmarkTolerance,
		},
		Transform: TransformConfig{
			DistanceMin:         DefaultDistanceMin,
			DistanceMax:         DefaultDistanceMax,
			MinScale:            DefaultMinScale,
			MaxScale:            DefaultMaxScale,
			RotationSensitivity: DefaultRotationSens,
			TrackingLerp:        DefaultTrackingLerp,
			IdleAngularVelocity: DefaultIdleAngularVel,
			IdleScale:           DefaultIdleScale,
			IdleScaleRelax:      DefaultIdleScaleRelax,
			IdleRotationRelax:   DefaultIdleRotationRelax,
			RenderFPS:           DefaultReferenceFPS,
			ReferenceFPS:        DefaultReferenceFPS,
		},
		Sphere: SphereConfig{
			Radius:          DefaultSphereRadius,
			DuplicateLow:    DefaultDuplicateLow,
			DuplicateHigh:   DefaultDuplicateHigh,
			DuplicateTarget: DefaultDuplicateTarget,
		},
		Overlay: OverlayConfig{
			Width:    DefaultOverlayWidth,
			Height:   DefaultOverlayHeight,
			Skeleton: true,
		},
		Uploads: UploadsConfig{
			Width:   DefaultTextureWidth,
			Height:  DefaultTextureHeight,
			Quality: DefaultTextureQuality,
			Format:  "jpeg",
		},
	}
}

// Load reads a YAML file and layers it over DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	alphas := map[string]float64{
		"gesture.tracking_alpha":           c.Gesture.TrackingAlpha,
		"gesture.idle_distance_alpha":      c.Gesture.IdleDistanceAlpha,
		"gesture.idle_position_alpha":      c.Gesture.IdlePositionAlpha,
		"transform.tracking_lerp":          c.Transform.TrackingLerp,
		"transform.idle_scale_relax":       c.Transform.IdleScaleRelax,
		"transform.idle_rotation_relax":    c.Transform.IdleRotationRelax,
		"tracking.min_confidence":          c.Tracking.MinConfidence,
		"tracking.min_tracking_confidence": c.Tracking.MinTrackingConf,
	}
	for name, v := range alphas {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %v", name, v)
		}
	}

	t := c.Transform
	if t.DistanceMin < 0 || t.DistanceMax <= t.DistanceMin {
		return fmt.Errorf("transform distance range [%v, %v] is empty", t.DistanceMin, t.DistanceMax)
	}
	if t.MinScale <= 0 || t.MaxScale <= t.MinScale {
		return fmt.Errorf("transform scale range [%v, %v] is empty", t.MinScale, t.MaxScale)
	}
	if t.IdleScale < t.MinScale || t.IdleScale > t.MaxScale {
		return fmt.Errorf("transform.idle_scale %v outside [%v, %v]", t.IdleScale, t.MinScale, t.MaxScale)
	}
	if t.RenderFPS <= 0 {
		return fmt.Errorf("transform.render_fps must be positive, got %d", t.RenderFPS)
	}
	if t.FrameCompensation && t.ReferenceFPS <= 0 {
		return fmt.Errorf("transform.reference_fps must be positive, got %v", t.ReferenceFPS)
	}

	s := c.Sphere
	if s.Radius <= 0 {
		return fmt.Errorf("sphere.radius must be positive, got %v", s.Radius)
	}
	if s.DuplicateLow < 1 || s.DuplicateHigh < s.DuplicateLow || s.DuplicateTarget <= s.DuplicateHigh {
		return fmt.Errorf("sphere duplication thresholds low=%d high=%d target=%d are inconsistent",
			s.DuplicateLow, s.DuplicateHigh, s.DuplicateTarget)
	}

	if c.Gesture.LandmarkTolerance < 0 {
		return fmt.Errorf("gesture.landmark_tolerance must not be negative, got %v", c.Gesture.LandmarkTolerance)
	}
	if c.Tracking.InitAttempts < 1 {
		return fmt.Errorf("tracking.init_attempts must be at least 1, got %d", c.Tracking.InitAttempts)
	}
	if c.Overlay.Width <= 0 || c.Overlay.Height <= 0 {
		return fmt.Errorf("overlay size %dx%d is invalid", c.Overlay.Width, c.Overlay.Height)
	}
	if c.Uploads.Width <= 0 || c.Uploads.Height <= 0 {
		return fmt.Errorf("uploads size %dx%d is invalid", c.Uploads.Width, c.Uploads.Height)
	}
	if c.Uploads.Quality < 1 || c.Uploads.Quality > 100 {
		return fmt.Errorf("uploads.quality must be in [1, 100], got %d", c.Uploads.Quality)
	}
	if c.Uploads.Format != "jpeg" && c.Uploads.Format != "webp" {
		return fmt.Errorf("uploads.format must be jpeg or webp, got %q", c.Uploads.Format)
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".showreel"
	}
	return filepath.Join(home, ".showreel")
}
