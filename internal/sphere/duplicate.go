package sphere

import "strconv"

// Policy decides when a sparse item set is repeated to fill the sphere.
type Policy struct {
	// Sets with Low..High entries are repeated until they reach Target.
	Low    int
	High   int
	Target int
}

// DefaultPolicy repeats sets of 1 to 29 items until there are at least 60.
var DefaultPolicy = Policy{Low: 1, High: 29, Target: 60}

// Expand applies the policy. Each repetition appends the whole set in order,
// and every entry of the batch starting at output offset k gets the id
// "<id>-<k>", the first batch included. URLs are kept. Sets outside
// [Low, High] are returned as a copy.
func Expand(entries []Entry, p Policy) []Entry {
	n := len(entries)
	if n == 0 || n < p.Low || n > p.High {
		out := make([]Entry, n)
		copy(out, entries)
		return out
	}

	batches := (p.Target + n - 1) / n
	out := make([]Entry, 0, batches*n)
	for len(out) < p.Target {
		offset := strconv.Itoa(len(out))
		for _, e := range entries {
			out = append(out, Entry{ID: e.ID + "-" + offset, URL: e.URL})
		}
	}
	return out
}
