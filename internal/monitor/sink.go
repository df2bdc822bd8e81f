package monitor

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayusman/showreel/internal/render"
)

// Sink forwards every n-th render frame to a bubbletea program. Render never
// blocks; a frame arriving while the previous one is still queued is dropped.
type Sink struct {
	every   uint64
	seen    atomic.Uint64
	dropped atomic.Uint64
	queue   chan render.Frame
}

// NewSink creates a Sink passing on one frame in every.
func NewSink(every int) *Sink {
	if every < 1 {
		every = 1
	}
	return &Sink{
		every: uint64(every),
		queue: make(chan render.Frame, 1),
	}
}

// Render queues the frame if it is due and the queue is free.
func (s *Sink) Render(frame render.Frame) {
	if (s.seen.Add(1)-1)%s.every != 0 {
		return
	}
	select {
	case s.queue <- frame:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns how many due frames were dropped.
func (s *Sink) Dropped() uint64 {
	return s.dropped.Load()
}

// Forward delivers queued frames as FrameMsg until ctx is done. send is
// usually (*tea.Program).Send.
func (s *Sink) Forward(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-s.queue:
			send(FrameMsg(frame))
		}
	}
}
