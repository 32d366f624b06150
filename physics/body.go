package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Body wraps a Chipmunk body. A frozen body is kinematic: it keeps its pose,
// ignores gravity and constraint impulses, and only moves by its velocity.
type Body struct {
	space  *Space
	body   *cp.Body
	shapes []*cp.Shape

	mass    float64
	damping float64

	// pinned bodies stay kinematic for their whole life.
	pinned      bool
	wantDynamic bool
	alive       bool
}

// CP returns the underlying Chipmunk body.
func (b *Body) CP() *cp.Body {
	if b == nil {
		return nil
	}
	return b.body
}

func (b *Body) Position() mgl64.Vec2 {
	return fromCP(b.body.Position())
}

// SetPosition teleports the body.
func (b *Body) SetPosition(p mgl64.Vec2) {
	b.body.SetPosition(toCP(p))
}

func (b *Body) Angle() float64 {
	return b.body.Angle()
}

func (b *Body) Velocity() mgl64.Vec2 {
	return fromCP(b.body.Velocity())
}

func (b *Body) SetVelocity(v mgl64.Vec2) {
	b.body.SetVelocity(v[0], v[1])
}

func (b *Body) AngularVelocity() float64 {
	return b.body.AngularVelocity()
}

func (b *Body) SetAngularVelocity(w float64) {
	b.body.SetAngularVelocity(w)
}

func (b *Body) Alive() bool {
	return b != nil && b.alive
}

func (b *Body) Pinned() bool {
	return b.pinned
}

func (b *Body) Frozen() bool {
	return !b.dynamic()
}

func (b *Body) dynamic() bool {
	return b.alive && b.body.GetType() == cp.BODY_DYNAMIC
}

// SetFrozen switches the body between kinematic and dynamic. Pinned bodies
// cannot be unfrozen.
func (b *Body) SetFrozen(frozen bool) {
	if !b.Alive() || frozen == b.Frozen() {
		return
	}
	if !frozen && b.pinned {
		return
	}

	if frozen {
		b.body.SetType(cp.BODY_KINEMATIC)
	} else {
		// mass and moment are accumulated from the shapes
		b.body.SetType(cp.BODY_DYNAMIC)
		if m := b.body.Mass(); m <= 0 || math.IsInf(m, 0) || math.IsNaN(m) {
			mass := b.mass
			if mass <= 0 {
				mass = 1
			}
			b.body.SetMass(mass)
			b.body.SetMoment(cp.MomentForCircle(mass, 0, 0.05, cp.Vector{}))
		}
	}
	b.space.refreshJointsOf(b)
}

// updateVelocity applies the body's linear damping coefficient on top of the
// space-wide damping.
func (b *Body) updateVelocity(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
	if b.damping > 0 {
		damping /= 1 + b.damping*dt
	}
	cp.BodyUpdateVelocity(body, gravity, damping, dt)
}
