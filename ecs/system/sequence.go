package system

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/tether/common"
	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/logger"
	"github.com/milk9111/tether/physics"
	"github.com/milk9111/tether/rope"
)

// ScriptLoader resolves a plan script path to its source.
type ScriptLoader func(path string) ([]byte, error)

// SequenceSystem runs the home sequence on entities with a Sequence: extend
// and retract the rope, then walk anchor A across the spots.
type SequenceSystem struct {
	frameDt    float64
	loadScript ScriptLoader
	log        *logrus.Entry
}

func NewSequenceSystem(loadScript ScriptLoader) *SequenceSystem {
	return &SequenceSystem{
		frameDt:    common.FrameDt,
		loadScript: loadScript,
		log:        logger.For("sequence"),
	}
}

type spotRef struct {
	entity ecs.Entity
	order  int
	pos    mgl64.Vec2
}

func (ss *SequenceSystem) Update(w *ecs.World) {
	if ss == nil || w == nil {
		return
	}
	in := currentInput(w)
	for _, e := range w.Query(component.SequenceComponent.Kind()) {
		seq, ok := ecs.Get(w, e, component.SequenceComponent)
		if !ok {
			continue
		}
		if !seq.Placed {
			ss.place(w, e)
			seq.Placed = true
		}
		if in.StartSequence && !seq.Running {
			ss.start(w, e, &seq)
		}
		if seq.Running {
			ss.advance(w, e, &seq)
		}
		_ = ecs.Add(w, e, component.SequenceComponent, seq)
	}
}

// place moves the entity to the last spot's X at startup.
func (ss *SequenceSystem) place(w *ecs.World, e ecs.Entity) {
	spots := sortedSpots(w)
	if len(spots) == 0 {
		ss.log.Warn("no spots in scene")
		return
	}
	x := spots[len(spots)-1].pos[0]
	if body := entityBody(w, e); body != nil {
		p := body.Position()
		body.SetPosition(vec(x, p[1]))
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent); ok {
		t.X = x
		_ = ecs.Add(w, e, component.TransformComponent, t)
	}
}

func (ss *SequenceSystem) start(w *ecs.World, e ecs.Entity, seq *component.Sequence) {
	spots := sortedSpots(w)
	if len(spots) == 0 {
		ss.log.Warn("sequence not started: no spots")
		return
	}

	inputs := PlanInputs{SpotCount: len(spots)}
	if _, r, ok := firstRope(w); ok && r.Chain != nil && !r.Chain.TornDown() {
		inputs.HasRope = true
		inputs.AnchorDistance = r.Chain.AnchorDistance()
		inputs.InitialLength = r.Chain.InitialLength()
		inputs.CurrentLength = r.Chain.CurrentLength()
	}

	plan := DefaultPlan(seq.Settings, inputs)
	if seq.Settings.Script != "" && ss.loadScript != nil {
		if p, err := ss.scriptPlan(seq.Settings.Script, inputs); err != nil {
			ss.log.WithError(err).WithField("script", seq.Settings.Script).Error("plan script failed, using default plan")
		} else {
			plan = p
		}
	}

	seq.Running = true
	seq.Plan = plan
	seq.Step = 0
	seq.Elapsed = 0
	seq.Started = false
	seq.Adjustment = nil
	seq.SpotCursor = math.MinInt
	w.Events().Push(ecs.Event{Type: ecs.EventSequenceStarted, Entity: e, Data: len(plan)})
	ss.log.WithFields(logrus.Fields{
		"steps":           len(plan),
		"spots":           len(spots),
		"anchor_distance": inputs.AnchorDistance,
	}).Info("home sequence started")

	if len(plan) == 0 {
		ss.finish(w, e, seq)
	}
}

func (ss *SequenceSystem) scriptPlan(path string, in PlanInputs) ([]component.SequenceStep, error) {
	src, err := ss.loadScript(path)
	if err != nil {
		return nil, err
	}
	return ScriptPlan(src, in)
}

func (ss *SequenceSystem) advance(w *ecs.World, e ecs.Entity, seq *component.Sequence) {
	step := seq.Plan[seq.Step]
	done := false

	switch step.Op {
	case component.SequenceExtend, component.SequenceRetract:
		done = ss.adjust(w, seq, step)
	case component.SequenceWait:
		seq.Elapsed += ss.frameDt
		done = seq.Elapsed >= step.Duration
	case component.SequenceTraverse:
		done = ss.traverse(w, e, seq)
	default:
		done = true
	}
	if !done {
		return
	}

	ss.log.WithField("op", string(step.Op)).Debug("sequence step done")
	seq.Step++
	seq.Elapsed = 0
	seq.Started = false
	seq.Adjustment = nil
	if seq.Step >= len(seq.Plan) {
		ss.finish(w, e, seq)
	}
}

// adjust starts the step's adjustment on first call and reports completion.
func (ss *SequenceSystem) adjust(w *ecs.World, seq *component.Sequence, step component.SequenceStep) bool {
	if !seq.Started {
		seq.Started = true
		_, r, ok := firstRope(w)
		if !ok || r.Chain == nil {
			ss.log.Warn("no rope to adjust, step skipped")
			return true
		}
		var (
			adj *rope.Adjustment
			err error
		)
		if step.Op == component.SequenceExtend {
			adj, err = r.Chain.BeginExtend(step.Value, step.Duration)
		} else {
			adj, err = r.Chain.BeginRetract(step.Value, step.Duration)
		}
		if err != nil {
			ss.log.WithError(err).WithField("op", string(step.Op)).Warn("adjustment rejected, step skipped")
			return true
		}
		seq.Adjustment = adj
		return false
	}
	if seq.Adjustment == nil {
		return true
	}
	select {
	case <-seq.Adjustment.Done():
		if err := seq.Adjustment.Err(); err != nil {
			ss.log.WithError(err).Warn("adjustment ended early")
		}
		return true
	default:
		return false
	}
}

// traverse moves the entity horizontally toward the next spot in order and
// reports when every spot has been visited.
func (ss *SequenceSystem) traverse(w *ecs.World, e ecs.Entity, seq *component.Sequence) bool {
	body := entityBody(w, e)
	if body == nil {
		ss.log.Warn("sequence entity has no body, traverse skipped")
		return true
	}

	var target *spotRef
	for _, s := range sortedSpots(w) {
		if s.order >= seq.SpotCursor {
			target = &s
			break
		}
	}
	if target == nil {
		body.SetVelocity(mgl64.Vec2{})
		return true
	}

	pos := body.Position()
	dx := target.pos[0] - pos[0]
	threshold := seq.Settings.ArrivalThreshold
	if math.Abs(dx) <= threshold || seq.Settings.MoveSpeed <= 0 {
		if seq.Settings.MoveSpeed <= 0 {
			body.SetPosition(vec(target.pos[0], pos[1]))
		}
		body.SetVelocity(mgl64.Vec2{})
		seq.SpotCursor = target.order + 1
		w.Events().Push(ecs.Event{Type: ecs.EventSpotReached, Entity: target.entity, Data: target.order})
		return false
	}

	// never overshoot within one frame
	speed := math.Min(seq.Settings.MoveSpeed, math.Abs(dx)/ss.frameDt)
	body.SetVelocity(vec(math.Copysign(speed, dx), 0))
	return false
}

func (ss *SequenceSystem) finish(w *ecs.World, e ecs.Entity, seq *component.Sequence) {
	seq.Running = false
	seq.Plan = nil
	seq.Step = 0
	seq.Adjustment = nil
	if body := entityBody(w, e); body != nil {
		body.SetVelocity(mgl64.Vec2{})
	}
	w.Events().Push(ecs.Event{Type: ecs.EventSequenceComplete, Entity: e})
	ss.log.Info("home sequence complete")
}

func entityBody(w *ecs.World, e ecs.Entity) *physics.Body {
	bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
	if !ok || bodyComp.Body == nil || !bodyComp.Body.Alive() {
		return nil
	}
	return bodyComp.Body
}

func sortedSpots(w *ecs.World) []spotRef {
	ents := w.Query(component.SpotComponent.Kind(), component.TransformComponent.Kind())
	spots := make([]spotRef, 0, len(ents))
	for _, e := range ents {
		spot, _ := ecs.Get(w, e, component.SpotComponent)
		t, _ := ecs.Get(w, e, component.TransformComponent)
		spots = append(spots, spotRef{entity: e, order: spot.Order, pos: vec(t.X, t.Y)})
	}
	sort.SliceStable(spots, func(i, j int) bool { return spots[i].order < spots[j].order })
	return spots
}
