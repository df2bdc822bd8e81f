// Package sphere lays gallery items out on a sphere and orients them toward
// its center.
package sphere

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultRadius is the radius of the stock layout.
const DefaultRadius = 6.2

// QuadAspect is the height-to-width ratio of an item's quad.
const QuadAspect = 1.35

// Entry is an item to be placed.
type Entry struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Placement is an item with its position on the sphere, in the sphere
// group's local frame.
type Placement struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Position r3.Vec `json:"position"`
}

// Points returns n points spread over a sphere of the given radius using the
// Fibonacci spiral. The result depends only on n and radius.
func Points(n int, radius float64) []r3.Vec {
	points := make([]r3.Vec, n)
	if n == 0 {
		return points
	}

	spiral := math.Sqrt(float64(n) * math.Pi)
	for i := range points {
		phi := math.Acos(-1 + 2*float64(i)/float64(n))
		theta := spiral * phi
		points[i] = r3.Vec{
			X: radius * math.Cos(theta) * math.Sin(phi),
			Y: radius * math.Sin(theta) * math.Sin(phi),
			Z: radius * math.Cos(phi),
		}
	}
	return points
}

// Pack places every entry, in order, on the sphere.
func Pack(entries []Entry, radius float64) []Placement {
	points := Points(len(entries), radius)
	placements := make([]Placement, len(entries))
	for i, e := range entries {
		placements[i] = Placement{ID: e.ID, URL: e.URL, Position: points[i]}
	}
	return placements
}
