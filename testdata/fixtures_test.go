package testdata

import (
	"testing"

	"github.com/ayusman/showreel/internal/detector"
)

func TestLoadSequence(t *testing.T) {
	seq, err := LoadSequence("pinch_sweep")
	if err != nil {
		t.Fatalf("LoadSequence() error = %v", err)
	}
	if len(seq) != 40 {
		t.Fatalf("expected 40 frames, got %d", len(seq))
	}

	first, last := seq[0][0], seq[len(seq)-1][0]
	if d := first.PinchDistance(); d < 0.049 || d > 0.051 {
		t.Errorf("expected first pinch 0.05, got %v", d)
	}
	if d := last.PinchDistance(); d < 0.399 || d > 0.401 {
		t.Errorf("expected last pinch 0.40, got %v", d)
	}
	if first.Points[detector.Palm].X >= last.Points[detector.Palm].X {
		t.Error("expected the palm to sweep left to right")
	}
}

func TestLoadSequence_DropsTruncatedHands(t *testing.T) {
	seq, err := LoadSequence("truncated")
	if err != nil {
		t.Fatalf("LoadSequence() error = %v", err)
	}
	if len(seq) != 2 || len(seq[0]) != 0 || len(seq[1]) != 1 {
		t.Errorf("unexpected sequence shape %d/%v", len(seq), seq)
	}
}

func TestLoadSequence_Missing(t *testing.T) {
	if _, err := LoadSequence("nope"); err == nil {
		t.Error("expected an error")
	}
}
