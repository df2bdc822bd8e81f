package transform

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ayusman/showreel/internal/gesture"
)

const tick = time.Second / 60

func present(distance, x, y float64) gesture.Sample {
	return gesture.Sample{Present: true, Distance: distance, Position: gesture.Position{X: x, Y: y}}
}

func absent() gesture.Sample {
	return gesture.Sample{Distance: 0.1, Position: gesture.Position{X: 0.5, Y: 0.5}}
}

func TestDriver_InitialState(t *testing.T) {
	d := NewDriver(DefaultConfig())
	if got := d.State(); got != (State{Scale: 1}) {
		t.Errorf("expected initial {1 0 0}, got %+v", got)
	}
}

func TestDriver_ZoomFactor(t *testing.T) {
	d := NewDriver(DefaultConfig())
	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 0},
		{0.05, 0},
		{0.225, 0.5},
		{0.40, 1},
		{0.9, 1},
	}

	for _, tt := range tests {
		if got := d.ZoomFactor(tt.distance); !scalar.EqualWithinAbs(got, tt.want, 1e-12) {
			t.Errorf("ZoomFactor(%v) = %v, want %v", tt.distance, got, tt.want)
		}
	}
}

func TestDriver_TargetScale(t *testing.T) {
	d := NewDriver(DefaultConfig())
	if got := d.TargetScale(0); !scalar.EqualWithinAbs(got, 0.9, 1e-12) {
		t.Errorf("TargetScale(0) = %v, want 0.9", got)
	}
	if got := d.TargetScale(1); !scalar.EqualWithinAbs(got, 24.0, 1e-12) {
		t.Errorf("TargetScale(1) = %v, want 24", got)
	}
	if got := d.TargetScale(0.5); !scalar.EqualWithinAbs(got, 12.45, 1e-12) {
		t.Errorf("TargetScale(0.5) = %v, want 12.45", got)
	}
}

func TestDriver_TrackingStep(t *testing.T) {
	d := NewDriver(DefaultConfig())
	got := d.Step(present(0.225, 0.7, 0.3), tick)

	// scale: 1 + (12.45 - 1) * 0.15 ; rotX: (0.3-0.5)*5.5*0.15 ; rotY: (0.7-0.5)*5.5*0.15
	if !scalar.EqualWithinAbs(got.Scale, 2.7175, 1e-12) {
		t.Errorf("scale = %v, want 2.7175", got.Scale)
	}
	if !scalar.EqualWithinAbs(got.RotationX, -0.165, 1e-12) {
		t.Errorf("rotation x = %v, want -0.165", got.RotationX)
	}
	if !scalar.EqualWithinAbs(got.RotationY, 0.165, 1e-12) {
		t.Errorf("rotation y = %v, want 0.165", got.RotationY)
	}
}

func TestDriver_TrackingConverges(t *testing.T) {
	d := NewDriver(DefaultConfig())
	sample := present(0.40, 0.7, 0.5)

	prevGap := math.Abs(d.State().Scale - 24)
	for i := 0; i < 300; i++ {
		s := d.Step(sample, tick)
		gap := math.Abs(s.Scale - 24)
		if gap > prevGap {
			t.Fatalf("tick %d: scale moved away from target", i)
		}
		prevGap = gap
	}

	s := d.State()
	if !scalar.EqualWithinAbs(s.Scale, 24, 1e-6) {
		t.Errorf("scale should converge to 24, got %v", s.Scale)
	}
	if !scalar.EqualWithinAbs(s.RotationY, 1.1, 1e-6) {
		t.Errorf("rotation y should converge to 1.1, got %v", s.RotationY)
	}
	if !scalar.EqualWithinAbs(s.RotationX, 0, 1e-6) {
		t.Errorf("rotation x should converge to 0, got %v", s.RotationX)
	}
}

func TestDriver_IdleStep(t *testing.T) {
	d := NewDriver(DefaultConfig())
	got := d.Step(absent(), time.Second)

	if !scalar.EqualWithinAbs(got.RotationY, 0.12, 1e-12) {
		t.Errorf("rotation y = %v, want 0.12 after one second", got.RotationY)
	}
	if !scalar.EqualWithinAbs(got.Scale, 1.005, 1e-12) {
		t.Errorf("scale = %v, want 1.005", got.Scale)
	}
	if got.RotationX != 0 {
		t.Errorf("rotation x = %v, want 0", got.RotationX)
	}
}

func TestDriver_IdleRelaxation(t *testing.T) {
	d := NewDriver(DefaultConfig())
	for i := 0; i < 100; i++ {
		d.Step(present(0.40, 0.5, 0.9), tick)
	}

	prev := d.State()
	for i := 0; i < 400; i++ {
		cur := d.Step(absent(), tick)
		if math.Abs(cur.Scale-1.1) > math.Abs(prev.Scale-1.1) {
			t.Fatalf("tick %d: scale moved away from idle", i)
		}
		if math.Abs(cur.RotationX) > math.Abs(prev.RotationX) {
			t.Fatalf("tick %d: rotation x moved away from 0", i)
		}
		if cur.RotationY <= prev.RotationY {
			t.Fatalf("tick %d: idle rotation should keep advancing", i)
		}
		prev = cur
	}

	if !scalar.EqualWithinAbs(prev.Scale, 1.1, 1e-6) {
		t.Errorf("scale should settle at 1.1, got %v", prev.Scale)
	}
	if !scalar.EqualWithinAbs(prev.RotationX, 0, 1e-6) {
		t.Errorf("rotation x should settle at 0, got %v", prev.RotationX)
	}
}

func TestDriver_ScaleStaysInBounds(t *testing.T) {
	d := NewDriver(DefaultConfig())
	samples := []gesture.Sample{
		present(5, 0, 0),
		present(-1, 1, 1),
		absent(),
		present(0.40, 0.5, 0.5),
		present(0, 0.5, 0.5),
	}

	for i := 0; i < 1000; i++ {
		s := d.Step(samples[i%len(samples)], tick)
		if s.Scale < 0.9 || s.Scale > 24 {
			t.Fatalf("tick %d: scale %v out of [0.9, 24]", i, s.Scale)
		}
	}
}

func TestDriver_FrameCompensation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameCompensation = true

	t.Run("reference rate matches per-tick", func(t *testing.T) {
		compensated := NewDriver(cfg)
		plain := NewDriver(DefaultConfig())
		a := compensated.Step(present(0.40, 0.6, 0.4), tick)
		b := plain.Step(present(0.40, 0.6, 0.4), tick)
		if !scalar.EqualWithinAbs(a.Scale, b.Scale, 1e-6) {
			t.Errorf("compensated %v should match per-tick %v at the reference rate", a.Scale, b.Scale)
		}
	})

	t.Run("double interval equals two ticks", func(t *testing.T) {
		once := NewDriver(cfg)
		twice := NewDriver(cfg)
		a := once.Step(present(0.40, 0.6, 0.4), 2*tick)
		twice.Step(present(0.40, 0.6, 0.4), tick)
		b := twice.Step(present(0.40, 0.6, 0.4), tick)
		if !scalar.EqualWithinAbs(a.Scale, b.Scale, 1e-6) {
			t.Errorf("one 2-tick step %v should equal two 1-tick steps %v", a.Scale, b.Scale)
		}
	})

	t.Run("zero interval is per-tick", func(t *testing.T) {
		d := NewDriver(cfg)
		got := d.Step(present(0.225, 0.5, 0.5), 0)
		if !scalar.EqualWithinAbs(got.Scale, 2.7175, 1e-12) {
			t.Errorf("scale = %v, want 2.7175", got.Scale)
		}
	})
}

func TestDriver_Reset(t *testing.T) {
	d := NewDriver(DefaultConfig())
	d.Step(present(0.3, 0.9, 0.1), tick)
	d.Reset()
	if d.State() != InitialState {
		t.Errorf("expected reset to initial state, got %+v", d.State())
	}
}
