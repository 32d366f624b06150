package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Joint is a pivot between two bodies, optionally paired with a rotary limit.
type Joint struct {
	a, b  *Body
	pivot *cp.Constraint
	pj    *cp.PivotJoint
	limit *cp.Constraint

	// active is true while the constraints are in the space.
	active  bool
	removed bool
}

// Anchors returns the connection points in each body's local space.
func (j *Joint) Anchors() (mgl64.Vec2, mgl64.Vec2) {
	return fromCP(j.pj.AnchorA), fromCP(j.pj.AnchorB)
}

func (j *Joint) SetAnchors(a, b mgl64.Vec2) {
	j.pj.AnchorA = toCP(a)
	j.pj.AnchorB = toCP(b)
	if j.active {
		j.a.body.Activate()
		j.b.body.Activate()
	}
}

func (j *Joint) Bodies() (*Body, *Body) {
	return j.a, j.b
}

// Active reports whether the solver currently sees the joint.
func (j *Joint) Active() bool {
	return j.active
}

func (j *Joint) Removed() bool {
	return j.removed
}

func (j *Joint) Limited() bool {
	return j.limit != nil
}
