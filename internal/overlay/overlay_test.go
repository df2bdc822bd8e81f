package overlay

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/showreel/internal/detector"
)

func TestProject_Mirrors(t *testing.T) {
	hand := detector.PinchLandmarks(0.25, 0.5, 0.1)
	points := Project(&hand, 360, 202)

	if len(points) != detector.NumLandmarks {
		t.Fatalf("expected %d points, got %d", detector.NumLandmarks, len(points))
	}
	palm := points[detector.Palm]
	if palm != image.Pt(270, 101) {
		t.Errorf("palm at x=0.25 should draw at (270, 101), got %v", palm)
	}
}

func TestRenderer_Defaults(t *testing.T) {
	r := NewRenderer(0, 0, true)
	if w, h := r.Size(); w != 360 || h != 202 {
		t.Errorf("expected default 360x202, got %dx%d", w, h)
	}
}

func TestRenderer_EmptyFrame(t *testing.T) {
	r := NewRenderer(360, 202, true)
	if _, err := r.Render(nil, nil); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame for nil, got %v", err)
	}
	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := r.Render(&empty, nil); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame for empty mat, got %v", err)
	}
}

func TestRenderer_Render(t *testing.T) {
	frame := gocv.NewMatWithSize(360, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	hand := detector.OpenPalmLandmarks()
	r := NewRenderer(360, 202, true)

	data, err := r.Render(&frame, &hand)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 360 || b.Dy() != 202 {
		t.Errorf("expected 360x202 preview, got %dx%d", b.Dx(), b.Dy())
	}

	// white landmark dot on a black frame
	palm := Project(&hand, 360, 202)[detector.Palm]
	rr, _, _, _ := img.At(palm.X, palm.Y).RGBA()
	if rr < 0x8000 {
		t.Errorf("expected a light landmark pixel at %v", palm)
	}

	if frame.Cols() != 640 || frame.Rows() != 360 {
		t.Error("source frame must not be modified")
	}
}

func TestBuffer_PublishAndLatest(t *testing.T) {
	b := NewBuffer()
	if frame, seq := b.Latest(); frame != nil || seq != 0 {
		t.Errorf("expected empty buffer, got %d bytes seq %d", len(frame), seq)
	}

	b.Publish([]byte("one"))
	b.Publish([]byte("two"))

	frame, seq := b.Latest()
	if string(frame) != "two" || seq != 2 {
		t.Errorf("expected latest 'two' seq 2, got %q seq %d", frame, seq)
	}
}

func TestBuffer_NextWakesWaiters(t *testing.T) {
	b := NewBuffer()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			frame, seq, err := b.Next(ctx, 0)
			if err != nil || string(frame) != "frame" || seq != 1 {
				t.Errorf("Next() = %q, %d, %v", frame, seq, err)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	b.Publish([]byte("frame"))
	wg.Wait()
}

func TestBuffer_NextReturnsImmediatelyWhenBehind(t *testing.T) {
	b := NewBuffer()
	b.Publish([]byte("a"))

	frame, seq, err := b.Next(context.Background(), 0)
	if err != nil || string(frame) != "a" || seq != 1 {
		t.Errorf("Next() = %q, %d, %v", frame, seq, err)
	}
}

func TestBuffer_NextCancelled(t *testing.T) {
	b := NewBuffer()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, _, err := b.Next(ctx, 0); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
