package app

import (
	"context"
	"log"
	"time"

	"github.com/ayusman/showreel/internal/render"
	"github.com/ayusman/showreel/internal/sphere"
)

// Run is the render loop. It ticks at transform.render_fps until ctx is
// done, independently of whether tracking is running.
func (a *App) Run(ctx context.Context) error {
	fps := a.settings.Transform.RenderFPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	log.Printf("Render loop started at %d fps", fps)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Println("Render loop stopped")
			return ctx.Err()
		case now := <-ticker.C:
			a.Tick(now, now.Sub(last))
			last = now
		}
	}
}

// Tick advances the scene by one frame: it applies a staged item set, reads
// the latest sample, steps the transform, orients every item and hands the
// frame to the sinks. It must only be called from one goroutine.
func (a *App) Tick(now time.Time, dt time.Duration) render.Frame {
	layout, changed := a.gallery.Sync()
	if changed {
		log.Printf("Layout v%d: %d placements", layout.Version, len(layout.Placements))
	}

	sample := a.slot.Load()
	state := a.driver.Step(sample, dt)
	items := sphere.Face(layout.Placements, sphere.Transform{
		Scale:     state.Scale,
		RotationX: state.RotationX,
		RotationY: state.RotationY,
	})

	a.tick++
	frame := render.Frame{
		Tick:          a.tick,
		Time:          now,
		Delta:         dt,
		Transform:     state,
		Sample:        sample,
		LayoutVersion: layout.Version,
		Items:         items,
	}

	a.frameMu.Lock()
	a.last = frame
	a.frameMu.Unlock()

	a.sinksMu.RLock()
	sinks := a.sinks
	a.sinksMu.RUnlock()
	for _, s := range sinks {
		s.Render(frame)
	}

	return frame
}
