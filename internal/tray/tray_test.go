package tray

import (
	"errors"
	"testing"

	"github.com/ayusman/showreel/internal/gesture"
	"github.com/ayusman/showreel/internal/render"
	"github.com/ayusman/showreel/internal/sphere"
	"github.com/ayusman/showreel/internal/transform"
)

func TestTray_Toggle(t *testing.T) {
	tr := New(false)

	var got []bool
	tr.OnToggle(func(enabled bool) error {
		got = append(got, enabled)
		return nil
	})

	tr.handleToggle()
	if !tr.IsEnabled() {
		t.Error("expected enabled after toggle")
	}
	tr.handleToggle()
	if tr.IsEnabled() {
		t.Error("expected disabled after second toggle")
	}
	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("unexpected callback calls %v", got)
	}
}

func TestTray_ToggleFailureReverts(t *testing.T) {
	tr := New(false)
	tr.OnToggle(func(enabled bool) error {
		return errors.New("no camera")
	})

	tr.handleToggle()
	if tr.IsEnabled() {
		t.Error("expected the toggle to be reverted")
	}
}

func TestTray_Open(t *testing.T) {
	tr := New(true)
	opened := 0
	tr.OnOpen(func() { opened++ })

	tr.handleOpen()
	if opened != 1 {
		t.Errorf("expected 1 open, got %d", opened)
	}
}

func TestTray_RenderBeforeReady(t *testing.T) {
	tr := New(true)
	// menus do not exist until systray is running
	for i := 0; i < 3*statusEvery; i++ {
		tr.Render(render.Frame{})
	}
	tr.SetEnabled(false)
	if tr.IsEnabled() {
		t.Error("expected disabled")
	}
}

func TestStatus(t *testing.T) {
	idle := render.Frame{Items: make([]sphere.Facing, 65)}
	if got := Status(idle); got != "Idle · 65 items" {
		t.Errorf("unexpected status %q", got)
	}

	tracking := render.Frame{
		Sample:    gesture.Sample{Present: true},
		Transform: transform.State{Scale: 12.34},
		Items:     make([]sphere.Facing, 60),
	}
	if got := Status(tracking); got != "Hand · zoom 12.3x · 60 items" {
		t.Errorf("unexpected status %q", got)
	}
}
