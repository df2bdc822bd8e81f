// Package app wires the detection loop and the render loop of the showreel.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/showreel/internal/bridge"
	"github.com/ayusman/showreel/internal/capture"
	"github.com/ayusman/showreel/internal/config"
	"github.com/ayusman/showreel/internal/detector"
	"github.com/ayusman/showreel/internal/gallery"
	"github.com/ayusman/showreel/internal/gesture"
	"github.com/ayusman/showreel/internal/overlay"
	"github.com/ayusman/showreel/internal/render"
	"github.com/ayusman/showreel/internal/store"
	"github.com/ayusman/showreel/internal/transform"
)

// ErrTrackingActive is returned by StartTracking when tracking is already running.
var ErrTrackingActive = errors.New("tracking already active")

// DetectorFactory creates a hand detector. It is called on every tracking start.
type DetectorFactory func() (detector.Detector, error)

// Config holds the application dependencies. Only Settings is required.
type Config struct {
	Settings *config.Config
	// Store persists the item set. Nil keeps it in memory only.
	Store *store.Store
	// Camera defaults to the device in Settings.
	Camera capture.Camera
	// NewDetector defaults to the MediaPipe service.
	NewDetector DetectorFactory
}

// App owns both loops and everything shared between them.
type App struct {
	settings    *config.Config
	store       *store.Store
	camera      capture.Camera
	newDetector DetectorFactory
	smoother    *gesture.Smoother

	slot    *bridge.Slot
	driver  *transform.Driver
	gallery *gallery.Gallery
	overlay *overlay.Renderer
	preview *overlay.Buffer

	// interpreter lives as long as the App; the detection loop owns it
	// while tracking, StopTracking after the loop has exited.
	interpreter *gesture.Interpreter

	// tracking lifecycle, serialized by mu
	mu       sync.Mutex
	tracking atomic.Bool
	detector detector.Detector
	stop     func()
	done     chan struct{}

	sinksMu sync.RWMutex
	sinks   []render.Sink

	frameMu sync.RWMutex
	last    render.Frame
	tick    uint64
	started time.Time
}

// New creates an App and stages the persisted item set, or the defaults when
// nothing is stored yet.
func New(cfg Config) (*App, error) {
	if cfg.Settings == nil {
		cfg.Settings = config.DefaultConfig()
	}
	settings := cfg.Settings

	a := &App{
		settings:    settings,
		store:       cfg.Store,
		camera:      cfg.Camera,
		newDetector: cfg.NewDetector,
		smoother:    gesture.NewSmoother(smootherConfig(settings)),
		driver:      transform.NewDriver(transformConfig(settings)),
		gallery:     gallery.New(settings.Sphere.Radius, duplicationPolicy(settings)),
		overlay:     overlay.NewRenderer(settings.Overlay.Width, settings.Overlay.Height, settings.Overlay.Skeleton),
		preview:     overlay.NewBuffer(),
		started:     time.Now(),
	}
	a.interpreter = gesture.NewInterpreter(a.smoother, settings.Gesture.LandmarkTolerance)
	a.slot = bridge.NewSlot(gesture.IdleSample(a.smoother.Idle()))

	if a.camera == nil {
		a.camera = capture.NewCamera(cameraConfig(settings))
	}
	if a.newDetector == nil {
		dc := detectorConfig(settings)
		a.newDetector = func() (detector.Detector, error) {
			return detector.NewMediaPipeDetector(dc)
		}
	}

	items := gallery.DefaultItems()
	if a.store != nil {
		stored, err := a.store.Items().LoadOrSeed(items)
		if err != nil {
			return nil, fmt.Errorf("failed to load items: %w", err)
		}
		items = stored
	}
	a.gallery.Stage(items)
	log.Printf("Loaded %d items", len(items))

	return a, nil
}

// SetItems replaces the item set. Empty ids are filled in. The new set is
// persisted immediately and shown from the next render tick.
func (a *App) SetItems(items []gallery.Item) ([]gallery.Item, error) {
	items = gallery.AssignIDs(items)
	if a.store != nil {
		if err := a.store.Items().ReplaceAll(items); err != nil {
			return nil, fmt.Errorf("failed to save items: %w", err)
		}
	}
	a.gallery.Stage(items)
	log.Printf("Staged %d items", len(items))
	return items, nil
}

// Items returns the raw item set behind the current layout.
func (a *App) Items() []gallery.Item {
	return a.gallery.Items()
}

// Layout returns the layout the render loop is currently drawing.
func (a *App) Layout() gallery.Layout {
	return a.gallery.Layout()
}

// Gallery returns the item set and layout holder.
func (a *App) Gallery() *gallery.Gallery {
	return a.gallery
}

// Preview returns the overlay buffer written by the detection loop.
func (a *App) Preview() *overlay.Buffer {
	return a.preview
}

// Sample returns the latest sample published by the detection loop.
func (a *App) Sample() gesture.Sample {
	return a.slot.Load()
}

// SampleWrites returns how many samples the detection loop has published.
func (a *App) SampleWrites() uint64 {
	return a.slot.Writes()
}

// Settings returns the configuration the App was built with.
func (a *App) Settings() *config.Config {
	return a.settings
}

// Store returns the backing store, which may be nil.
func (a *App) Store() *store.Store {
	return a.store
}

// Uptime returns the time since the App was created.
func (a *App) Uptime() time.Duration {
	return time.Since(a.started)
}

// AddSink registers a frame consumer.
func (a *App) AddSink(s render.Sink) {
	a.sinksMu.Lock()
	defer a.sinksMu.Unlock()
	a.sinks = append(a.sinks, s)
}

// LastFrame returns the most recently rendered frame.
func (a *App) LastFrame() render.Frame {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	return a.last
}
