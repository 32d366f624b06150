package physics

import (
	"github.com/jakecoffman/cp"
)

// Collider is a capsule along the body's local Y axis, centred on the body.
type Collider struct {
	shape  *cp.Shape
	length float64
}

func (c *Collider) Shape() *cp.Shape {
	return c.shape
}

func (c *Collider) Length() float64 {
	return c.length
}

func (c *Collider) SetLength(length float64) {
	seg, ok := c.shape.Class.(*cp.Segment)
	if !ok {
		return
	}
	half := length / 2
	seg.SetEndpoints(cp.Vector{X: 0, Y: -half}, cp.Vector{X: 0, Y: half})
	c.length = length
}
