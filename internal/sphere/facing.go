package sphere

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// degenerate is the squared cross-product norm below which two unit vectors
// are treated as parallel.
const degenerate = 1e-12

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// Transform is the sphere group's scale and rotation, in radians.
type Transform struct {
	Scale     float64
	RotationX float64
	RotationY float64
}

// Facing is an item's world position and the orientation that makes it look
// at the sphere's center.
type Facing struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	World   r3.Vec `json:"world"`
	Right   r3.Vec `json:"right"`
	Up      r3.Vec `json:"up"`
	Forward r3.Vec `json:"forward"`
}

// World maps a local position through the group transform, applying scale,
// then the Y rotation, then the X rotation.
func (t Transform) World(p r3.Vec) r3.Vec {
	p = r3.Scale(t.Scale, p)
	p = r3.NewRotation(t.RotationY, axisY).Rotate(p)
	return r3.NewRotation(t.RotationX, axisX).Rotate(p)
}

// Face orients every placement toward the origin under the given transform.
// It is recomputed on every tick because the group rotates.
func Face(placements []Placement, t Transform) []Facing {
	ry := r3.NewRotation(t.RotationY, axisY)
	rx := r3.NewRotation(t.RotationX, axisX)

	out := make([]Facing, len(placements))
	for i, p := range placements {
		world := rx.Rotate(ry.Rotate(r3.Scale(t.Scale, p.Position)))
		right, up, forward := LookAtOrigin(world)
		out[i] = Facing{
			ID:      p.ID,
			URL:     p.URL,
			World:   world,
			Right:   right,
			Up:      up,
			Forward: forward,
		}
	}
	return out
}

// LookAtOrigin returns an orthonormal basis whose forward axis points from
// pos toward the origin. World +Y is the preferred up direction; +Z is used
// when forward is parallel to it.
func LookAtOrigin(pos r3.Vec) (right, up, forward r3.Vec) {
	if r3.Norm2(pos) == 0 {
		forward = r3.Scale(-1, axisZ)
	} else {
		forward = r3.Unit(r3.Scale(-1, pos))
	}

	right = r3.Cross(forward, axisY)
	if r3.Norm2(right) < degenerate {
		right = r3.Cross(forward, axisZ)
	}
	right = r3.Unit(right)
	up = r3.Cross(right, forward)
	return right, up, forward
}
