package system

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/tether/common"
	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/logger"
	"github.com/milk9111/tether/physics"
)

const (
	defaultPhysicsStep = 1.0 / 120
	defaultMaxSteps    = 8
)

// StepListener runs before every fixed physics step.
type StepListener interface {
	StepPhysics(w *ecs.World, dt float64)
}

type PhysicsSettings struct {
	// Step is the fixed simulation step in seconds.
	Step float64
	// MaxSteps bounds the steps taken in one frame; leftover time is dropped.
	MaxSteps int
}

// PhysicsSystem owns the physics space and advances it with a fixed step
// accumulated from the frame time.
type PhysicsSystem struct {
	space    *physics.Space
	frameDt  float64
	step     float64
	maxSteps int

	accumulator float64
	steps       uint64
	listeners   []StepListener

	bodies map[ecs.Entity]*physics.Body
	log    *logrus.Entry
}

func NewPhysicsSystem(space *physics.Space, settings PhysicsSettings) *PhysicsSystem {
	step := settings.Step
	if step <= 0 {
		step = defaultPhysicsStep
	}
	maxSteps := settings.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}
	return &PhysicsSystem{
		space:    space,
		frameDt:  common.FrameDt,
		step:     step,
		maxSteps: maxSteps,
		bodies:   make(map[ecs.Entity]*physics.Body),
		log:      logger.For("physics_system"),
	}
}

func (ps *PhysicsSystem) Space() *physics.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// StepDt is the fixed step length.
func (ps *PhysicsSystem) StepDt() float64 {
	return ps.step
}

// Steps counts physics steps taken so far.
func (ps *PhysicsSystem) Steps() uint64 {
	return ps.steps
}

func (ps *PhysicsSystem) AddListener(l StepListener) {
	if l == nil {
		return
	}
	ps.listeners = append(ps.listeners, l)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil || ps.space == nil {
		return
	}

	ps.cleanupBodies(w)
	ps.syncEntities(w)

	ps.accumulator += ps.frameDt
	n := 0
	for ps.accumulator >= ps.step && n < ps.maxSteps {
		for _, l := range ps.listeners {
			l.StepPhysics(w, ps.step)
		}
		ps.space.Step(ps.step)
		ps.accumulator -= ps.step
		ps.steps++
		n++
	}
	if n == ps.maxSteps && ps.accumulator >= ps.step {
		ps.log.WithField("dropped", ps.accumulator).Debug("physics fell behind, dropping time")
		ps.accumulator = 0
	}

	ps.syncTransforms(w)
}

// syncEntities creates anchor bodies for PhysicsBody components that do not
// have one yet. Anchor B is held frozen until its rope releases it, so it
// cannot drift before the chain is measured.
func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || bodyComp.Body != nil {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}

		body := ps.space.NewAnchor(physics.AnchorDef{
			Position:  vec(transform.X, transform.Y),
			Radius:    bodyComp.Radius,
			Mass:      bodyComp.Mass,
			Damping:   bodyComp.Damping,
			Kinematic: bodyComp.Kinematic,
			Held:      ecs.Has(w, e, component.AnchorBTagComponent),
		})
		bodyComp.Body = body
		ps.bodies[e] = body
		if err := ecs.Add(w, e, component.PhysicsBodyComponent, bodyComp); err != nil {
			ps.log.WithError(err).WithField("entity", e.String()).Warn("store physics body")
		}
	}
}

func (ps *PhysicsSystem) cleanupBodies(w *ecs.World) {
	for e, body := range ps.bodies {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent) {
			continue
		}
		ps.space.RemoveBody(body)
		delete(ps.bodies, e)
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || bodyComp.Body == nil || !bodyComp.Body.Alive() {
			continue
		}
		transform, _ := ecs.Get(w, e, component.TransformComponent)
		pos := bodyComp.Body.Position()
		transform.X = pos[0]
		transform.Y = pos[1]
		transform.Rotation = bodyComp.Body.Angle()
		_ = ecs.Add(w, e, component.TransformComponent, transform)
	}
}
