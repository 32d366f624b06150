package system

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"

	"github.com/milk9111/tether/common"
	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/logger"
	"github.com/milk9111/tether/rope"
)

// RopeSystem builds chains for Rope components, runs their stabilizers on
// every physics step and their length adjustments once per frame.
type RopeSystem struct {
	engine  rope.Engine
	frameDt float64
	log     *logrus.Entry
}

func NewRopeSystem(engine rope.Engine) *RopeSystem {
	return &RopeSystem{
		engine:  engine,
		frameDt: common.FrameDt,
		log:     logger.For("rope_system"),
	}
}

// StepPhysics advances stabilizers; it is registered with the physics system.
func (rs *RopeSystem) StepPhysics(w *ecs.World, dt float64) {
	if rs == nil || w == nil {
		return
	}
	for _, e := range w.Query(component.RopeComponent.Kind()) {
		r, ok := ecs.Get(w, e, component.RopeComponent)
		if !ok || r.Stabilizer == nil || r.Settled {
			continue
		}
		r.Stabilizer.Step(dt)
		if !r.Stabilizer.Done() {
			continue
		}
		r.Settled = true
		_ = ecs.Add(w, e, component.RopeComponent, r)
		w.Events().Push(ecs.Event{Type: ecs.EventRopeSettled, Entity: e, Data: r.Stabilizer.Skipped()})
	}
}

func (rs *RopeSystem) Update(w *ecs.World) {
	if rs == nil || w == nil || rs.engine == nil {
		return
	}
	for _, e := range w.Query(component.RopeComponent.Kind()) {
		r, ok := ecs.Get(w, e, component.RopeComponent)
		if !ok {
			continue
		}

		if r.Rebuild && r.Chain != nil {
			r.Chain.Teardown(rs.engine)
			r.Chain = nil
			r.Stabilizer = nil
			r.Settled = false
		}
		r.Rebuild = false

		if r.Chain == nil {
			if !rs.build(w, e, &r) {
				_ = ecs.Add(w, e, component.RopeComponent, r)
				continue
			}
		}

		if r.Chain.Update(rs.frameDt) {
			w.Events().Push(ecs.Event{Type: ecs.EventAdjustDone, Entity: e, Data: r.Chain.CurrentLength()})
		}
		_ = ecs.Add(w, e, component.RopeComponent, r)

		rs.writeLine(w, e, r)
	}
}

func (rs *RopeSystem) build(w *ecs.World, e ecs.Entity, r *component.Rope) bool {
	_, a, okA := bodyOf(w, component.AnchorATagComponent)
	_, b, okB := bodyOf(w, component.AnchorBTagComponent)
	if !okA || !okB {
		// anchors get their bodies from the physics system first
		return false
	}

	chain, err := rope.Build(rs.engine, a, b, r.Config)
	if err != nil {
		rs.log.WithError(err).WithField("entity", e.String()).Error("build rope")
		return false
	}
	rope.ApplyFiltering(rs.engine, chain)
	st, err := rope.NewStabilizer(chain, r.Config.Stabilize)
	if err != nil {
		rs.log.WithError(err).Error("start stabilizer")
		chain.Teardown(rs.engine)
		return false
	}

	r.Chain = chain
	r.Stabilizer = st
	r.Settled = false
	w.Events().Push(ecs.Event{Type: ecs.EventRopeBuilt, Entity: e, Data: chain.SegmentCount()})
	rs.log.WithFields(logrus.Fields{
		"entity":   e.String(),
		"rope":     chain.ID.String(),
		"segments": chain.SegmentCount(),
	}).Info("rope ready")
	return true
}

func (rs *RopeSystem) writeLine(w *ecs.World, e ecs.Entity, r component.Rope) {
	line, ok := ecs.Get(w, e, component.RopeLineComponent)
	if !ok {
		line = component.RopeLine{Color: colornames.Yellow}
	}
	line.Points = r.Chain.AppendPositions(line.Points[:0])
	line.Width = r.Chain.Width()
	if line.Color == nil {
		line.Color = colornames.Yellow
	}
	_ = ecs.Add(w, e, component.RopeLineComponent, line)
}
