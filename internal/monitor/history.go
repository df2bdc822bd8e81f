package monitor

// History is a fixed-size ring of the most recent values.
type History struct {
	values []float64
	next   int
	full   bool
}

// NewHistory creates a History holding up to capacity values.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{values: make([]float64, capacity)}
}

// Push appends v, overwriting the oldest value when full.
func (h *History) Push(v float64) {
	h.values[h.next] = v
	h.next++
	if h.next == len(h.values) {
		h.next = 0
		h.full = true
	}
}

// Len returns the number of values held.
func (h *History) Len() int {
	if h.full {
		return len(h.values)
	}
	return h.next
}

// Values returns the held values, oldest first.
func (h *History) Values() []float64 {
	if !h.full {
		out := make([]float64, h.next)
		copy(out, h.values[:h.next])
		return out
	}
	out := make([]float64, 0, len(h.values))
	out = append(out, h.values[h.next:]...)
	return append(out, h.values[:h.next]...)
}
