package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/tether/common"
	"github.com/milk9111/tether/logger"
	"github.com/milk9111/tether/rope"
)

const (
	collisionTypeRope cp.CollisionType = iota + 1
	collisionTypeAnchor
	collisionTypeSolid
)

const solverIterations = 20

// ErrForeignBody is returned when a rope.Body or rope.Joint handed to a Space
// was not created by it.
var ErrForeignBody = errors.New("physics: body not created by this space")

type Settings struct {
	Gravity mgl64.Vec2
	// Damping is the fraction of velocity kept per second by every body.
	Damping float64
}

func DefaultSettings() Settings {
	return Settings{
		Gravity: mgl64.Vec2{0, common.Gravity},
		Damping: 1,
	}
}

// Space owns a Chipmunk space and implements rope.Engine on top of it.
type Space struct {
	space         *cp.Space
	handlersReady bool

	bodies  map[*cp.Body]*Body
	joints  map[*Body][]*Joint
	ignored map[*cp.Body]map[*cp.Body]struct{}

	log *logrus.Entry
}

var _ rope.Engine = (*Space)(nil)

func NewSpace(settings Settings) *Space {
	space := cp.NewSpace()
	space.Iterations = solverIterations
	space.SetGravity(cp.Vector{X: settings.Gravity[0], Y: settings.Gravity[1]})
	if settings.Damping > 0 && settings.Damping <= 1 {
		space.SetDamping(settings.Damping)
	}

	s := &Space{
		space:   space,
		bodies:  make(map[*cp.Body]*Body),
		joints:  make(map[*Body][]*Joint),
		ignored: make(map[*cp.Body]map[*cp.Body]struct{}),
		log:     logger.For("physics"),
	}
	s.ensureHandlers()
	return s
}

// Space returns the underlying Chipmunk space.
func (s *Space) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

// Step advances the simulation by dt seconds.
func (s *Space) Step(dt float64) {
	if s == nil || s.space == nil || dt <= 0 {
		return
	}
	s.space.Step(dt)
}

func (s *Space) ensureHandlers() {
	if s.handlersReady {
		return
	}
	handler := s.space.NewWildcardCollisionHandler(collisionTypeRope)
	handler.UserData = s
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sp, ok := userData.(*Space)
		if !ok || sp == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		return !sp.ignoredPair(shapeA.Body(), shapeB.Body())
	}
	s.handlersReady = true
}

// AnchorDef describes a body a rope can be attached to. Kinematic anchors are
// moved by velocity and never respond to forces. Held anchors start frozen
// and stay that way until something calls SetFrozen(false), e.g. a rope
// stabilizer releasing its trailing anchor.
type AnchorDef struct {
	Position  mgl64.Vec2
	Radius    float64
	Mass      float64
	Damping   float64
	Kinematic bool
	Held      bool
}

// NewAnchor creates an anchor body with a circle shape.
func (s *Space) NewAnchor(def AnchorDef) *Body {
	b := s.newBody(rope.BodyDef{
		Position: def.Position,
		Mass:     def.Mass,
		Damping:  def.Damping,
		Frozen:   true,
	})
	b.pinned = def.Kinematic

	radius := def.Radius
	if radius <= 0 {
		radius = 0.05
	}
	shape := cp.NewCircle(b.body, radius, cp.Vector{})
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeAnchor)
	if def.Mass > 0 {
		shape.SetMass(def.Mass)
	}
	s.space.AddShape(shape)
	b.shapes = append(b.shapes, shape)

	if !def.Kinematic && !def.Held {
		b.SetFrozen(false)
	}
	s.log.WithFields(logrus.Fields{
		"x":         def.Position[0],
		"y":         def.Position[1],
		"kinematic": def.Kinematic,
		"held":      def.Held,
	}).Debug("anchor created")
	return b
}

// AddStaticSegment adds solid static geometry, e.g. a floor.
func (s *Space) AddStaticSegment(a, b mgl64.Vec2, radius float64) {
	shape := cp.NewSegment(s.space.StaticBody, cp.Vector{X: a[0], Y: a[1]}, cp.Vector{X: b[0], Y: b[1]}, radius)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeSolid)
	s.space.AddShape(shape)
}

func (s *Space) NewBody(def rope.BodyDef) rope.Body {
	return s.newBody(def)
}

// newBody always starts kinematic. The body turns dynamic once it has mass,
// through SetFrozen(false).
func (s *Space) newBody(def rope.BodyDef) *Body {
	cpBody := cp.NewKinematicBody()
	cpBody.SetPosition(cp.Vector{X: def.Position[0], Y: def.Position[1]})
	cpBody.SetAngle(def.Angle)

	b := &Body{
		space:   s,
		body:    cpBody,
		mass:    def.Mass,
		damping: def.Damping,
		alive:   true,
	}
	cpBody.UserData = b
	cpBody.SetVelocityUpdateFunc(b.updateVelocity)
	s.space.AddBody(cpBody)
	s.bodies[cpBody] = b

	if !def.Frozen {
		b.wantDynamic = true
	}
	return b
}

func (s *Space) NewCollider(body rope.Body, def rope.ColliderDef) (rope.Collider, error) {
	b, err := s.own(body)
	if err != nil {
		return nil, fmt.Errorf("physics: new collider: %w", err)
	}
	half := def.Length / 2
	shape := cp.NewSegment(b.body, cp.Vector{X: 0, Y: -half}, cp.Vector{X: 0, Y: half}, def.Radius)
	shape.SetFriction(0.5)
	shape.SetCollisionType(collisionTypeRope)
	if b.mass > 0 {
		shape.SetMass(b.mass)
	}
	s.space.AddShape(shape)
	b.shapes = append(b.shapes, shape)

	if b.wantDynamic {
		b.wantDynamic = false
		b.SetFrozen(false)
	}
	return &Collider{shape: shape, length: def.Length}, nil
}

func (s *Space) NewJoint(def rope.JointDef) (rope.Joint, error) {
	a, err := s.own(def.A)
	if err != nil {
		return nil, fmt.Errorf("physics: new joint: %w", err)
	}
	b, err := s.own(def.B)
	if err != nil {
		return nil, fmt.Errorf("physics: new joint: %w", err)
	}

	pivot := cp.NewPivotJoint2(a.body, b.body, toCP(def.AnchorA), toCP(def.AnchorB))
	pivot.SetCollideBodies(false)
	j := &Joint{
		a:     a,
		b:     b,
		pivot: pivot,
		pj:    pivot.Class.(*cp.PivotJoint),
	}
	if def.Kind == rope.JointLimited {
		limit := cp.NewRotaryLimitJoint(a.body, b.body, -def.MaxBend, def.MaxBend)
		limit.SetCollideBodies(false)
		j.limit = limit
	}

	s.joints[a] = append(s.joints[a], j)
	s.joints[b] = append(s.joints[b], j)
	s.refreshJoint(j)
	return j, nil
}

func (s *Space) IgnoreCollision(a, b rope.Body) {
	ba, errA := s.own(a)
	bb, errB := s.own(b)
	if errA != nil || errB != nil {
		s.log.Warn("ignore collision: foreign body")
		return
	}
	s.addIgnored(ba.body, bb.body)
	s.addIgnored(bb.body, ba.body)
}

// Ignored reports whether collision response between a and b is disabled.
func (s *Space) Ignored(a, b rope.Body) bool {
	ba, errA := s.own(a)
	bb, errB := s.own(b)
	if errA != nil || errB != nil {
		return false
	}
	return s.ignoredPair(ba.body, bb.body)
}

func (s *Space) addIgnored(a, b *cp.Body) {
	set := s.ignored[a]
	if set == nil {
		set = make(map[*cp.Body]struct{})
		s.ignored[a] = set
	}
	set[b] = struct{}{}
}

func (s *Space) ignoredPair(a, b *cp.Body) bool {
	set, ok := s.ignored[a]
	if !ok {
		return false
	}
	_, ok = set[b]
	return ok
}

func (s *Space) RemoveBody(body rope.Body) {
	b, err := s.own(body)
	if err != nil || !b.alive {
		return
	}
	for _, j := range s.joints[b] {
		s.detach(j)
	}
	delete(s.joints, b)

	for _, shape := range b.shapes {
		s.space.RemoveShape(shape)
	}
	s.space.RemoveBody(b.body)
	delete(s.bodies, b.body)

	for other := range s.ignored[b.body] {
		delete(s.ignored[other], b.body)
	}
	delete(s.ignored, b.body)
	b.alive = false
}

func (s *Space) RemoveJoint(joint rope.Joint) {
	j, ok := joint.(*Joint)
	if !ok || j == nil || j.removed {
		return
	}
	s.detach(j)
	s.joints[j.a] = without(s.joints[j.a], j)
	s.joints[j.b] = without(s.joints[j.b], j)
}

func (s *Space) detach(j *Joint) {
	if j.active {
		s.removeConstraints(j)
	}
	j.removed = true
}

// refreshJoint keeps a joint out of the space while neither body is dynamic;
// the solver cannot handle a constraint between two infinite masses.
func (s *Space) refreshJoint(j *Joint) {
	if j.removed {
		return
	}
	want := j.a.dynamic() || j.b.dynamic()
	switch {
	case want && !j.active:
		s.space.AddConstraint(j.pivot)
		if j.limit != nil {
			s.space.AddConstraint(j.limit)
		}
		j.active = true
	case !want && j.active:
		s.removeConstraints(j)
	}
}

func (s *Space) removeConstraints(j *Joint) {
	s.space.RemoveConstraint(j.pivot)
	if j.limit != nil {
		s.space.RemoveConstraint(j.limit)
	}
	j.active = false
}

func (s *Space) refreshJointsOf(b *Body) {
	for _, j := range s.joints[b] {
		s.refreshJoint(j)
	}
}

func (s *Space) own(body rope.Body) (*Body, error) {
	b, ok := body.(*Body)
	if !ok || b == nil || b.space != s {
		return nil, ErrForeignBody
	}
	return b, nil
}

func without(js []*Joint, j *Joint) []*Joint {
	for i, x := range js {
		if x == j {
			return append(js[:i], js[i+1:]...)
		}
	}
	return js
}

func toCP(v mgl64.Vec2) cp.Vector {
	return cp.Vector{X: v[0], Y: v[1]}
}

func fromCP(v cp.Vector) mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}
