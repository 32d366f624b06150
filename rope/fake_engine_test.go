package rope

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeBody struct {
	eng    *fakeEngine
	name   string
	pos    mgl64.Vec2
	angle  float64
	vel    mgl64.Vec2
	angVel float64
	frozen bool
	dead   bool
	def    BodyDef
}

func (b *fakeBody) Position() mgl64.Vec2         { return b.pos }
func (b *fakeBody) Velocity() mgl64.Vec2         { return b.vel }
func (b *fakeBody) AngularVelocity() float64     { return b.angVel }
func (b *fakeBody) SetVelocity(v mgl64.Vec2)     { b.vel = v }
func (b *fakeBody) SetAngularVelocity(w float64) { b.angVel = w }
func (b *fakeBody) Frozen() bool                 { return b.frozen }
func (b *fakeBody) Alive() bool                  { return !b.dead }

func (b *fakeBody) SetFrozen(frozen bool) {
	if b.frozen != frozen && b.eng != nil {
		b.eng.record(fmt.Sprintf("frozen:%s:%v", b.name, frozen))
	}
	b.frozen = frozen
}

// world maps a body-local point to world space.
func (b *fakeBody) world(local mgl64.Vec2) mgl64.Vec2 {
	s, c := math.Sincos(b.angle)
	return b.pos.Add(mgl64.Vec2{local[0]*c - local[1]*s, local[0]*s + local[1]*c})
}

type fakeJoint struct {
	def     JointDef
	a, b    mgl64.Vec2
	removed bool
}

func (j *fakeJoint) Anchors() (mgl64.Vec2, mgl64.Vec2) { return j.a, j.b }
func (j *fakeJoint) SetAnchors(a, b mgl64.Vec2)        { j.a, j.b = a, b }

type fakeCollider struct {
	body   *fakeBody
	radius float64
	length float64
}

func (c *fakeCollider) Length() float64          { return c.length }
func (c *fakeCollider) SetLength(length float64) { c.length = length }

type fakeEngine struct {
	bodies    []*fakeBody
	joints    []*fakeJoint
	colliders []*fakeCollider
	ignored   [][2]Body
	events    []string

	// failJointAt makes the n-th NewJoint call fail (1-based); 0 disables.
	failJointAt int
	jointCalls  int
}

var errFakeJoint = errors.New("fake: joint refused")

func newFakeEngine() *fakeEngine { return &fakeEngine{} }

func (e *fakeEngine) record(ev string) { e.events = append(e.events, ev) }

func (e *fakeEngine) anchor(name string, x, y float64) *fakeBody {
	return &fakeBody{eng: e, name: name, pos: mgl64.Vec2{x, y}}
}

func (e *fakeEngine) NewBody(def BodyDef) Body {
	b := &fakeBody{
		eng:    e,
		name:   fmt.Sprintf("link%d", len(e.bodies)),
		pos:    def.Position,
		angle:  def.Angle,
		frozen: def.Frozen,
		def:    def,
	}
	e.bodies = append(e.bodies, b)
	return b
}

func (e *fakeEngine) NewCollider(body Body, def ColliderDef) (Collider, error) {
	c := &fakeCollider{body: body.(*fakeBody), radius: def.Radius, length: def.Length}
	e.colliders = append(e.colliders, c)
	return c, nil
}

func (e *fakeEngine) NewJoint(def JointDef) (Joint, error) {
	e.jointCalls++
	if e.failJointAt > 0 && e.jointCalls == e.failJointAt {
		return nil, errFakeJoint
	}
	j := &fakeJoint{def: def, a: def.AnchorA, b: def.AnchorB}
	e.joints = append(e.joints, j)
	return j, nil
}

func (e *fakeEngine) IgnoreCollision(a, b Body) {
	e.ignored = append(e.ignored, [2]Body{a, b})
	e.record("ignore")
}

func (e *fakeEngine) RemoveBody(body Body) {
	body.(*fakeBody).dead = true
}

func (e *fakeEngine) RemoveJoint(joint Joint) {
	joint.(*fakeJoint).removed = true
}

func (e *fakeEngine) liveBodies() int {
	n := 0
	for _, b := range e.bodies {
		if !b.dead {
			n++
		}
	}
	return n
}

func (e *fakeEngine) liveJoints() int {
	n := 0
	for _, j := range e.joints {
		if !j.removed {
			n++
		}
	}
	return n
}
