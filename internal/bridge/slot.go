// Package bridge connects the detection loop to the render loop.
package bridge

import (
	"sync"

	"github.com/ayusman/showreel/internal/gesture"
)

// Slot holds the latest gesture sample. The detection loop is the only
// writer and the render loop the only reader; both run on their own
// goroutines, so the copy in and out is guarded by a mutex. Neither side ever
// waits for the other to produce anything: a reader simply gets whatever was
// stored last, possibly the same value several ticks in a row.
type Slot struct {
	mu     sync.RWMutex
	sample gesture.Sample
	writes uint64
}

// NewSlot creates a Slot holding initial.
func NewSlot(initial gesture.Sample) *Slot {
	return &Slot{sample: initial}
}

// Store replaces the held sample.
func (s *Slot) Store(sample gesture.Sample) {
	s.mu.Lock()
	s.sample = sample
	s.writes++
	s.mu.Unlock()
}

// Load returns a copy of the held sample.
func (s *Slot) Load() gesture.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sample
}

// Writes returns how many times Store has been called.
func (s *Slot) Writes() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
