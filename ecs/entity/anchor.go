package entity

import (
	"fmt"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/prefabs"
)

// NewAnchorA creates the home anchor: a pinned body the player and the home
// sequence move.
func NewAnchorA(w *ecs.World, spec prefabs.AnchorSpec, seq prefabs.SequenceSpec) (ecs.Entity, error) {
	spec.Kinematic = true
	anchor, err := newAnchor(w, "anchor_a", spec)
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, anchor, component.AnchorATagComponent, component.AnchorATag{}); err != nil {
		return 0, fmt.Errorf("anchor_a: add tag: %w", err)
	}
	if spec.Speed > 0 {
		if err := ecs.Add(w, anchor, component.MoverComponent, component.Mover{Speed: spec.Speed}); err != nil {
			return 0, fmt.Errorf("anchor_a: add mover: %w", err)
		}
	}
	if err := ecs.Add(w, anchor, component.SequenceComponent, component.Sequence{Settings: component.SequenceSettings{
		ExtendDuration:   seq.ExtendDuration,
		WaitAfterExtend:  seq.WaitAfterExtend,
		RetractDuration:  seq.RetractDuration,
		WaitBeforeSpot:   seq.WaitBeforeSpot,
		MoveSpeed:        seq.MoveSpeed,
		ArrivalThreshold: seq.ArrivalThreshold,
		Script:           seq.Script,
	}}); err != nil {
		return 0, fmt.Errorf("anchor_a: add sequence: %w", err)
	}
	return anchor, nil
}

// NewAnchorB creates the free end of the rope.
func NewAnchorB(w *ecs.World, spec prefabs.AnchorSpec) (ecs.Entity, error) {
	anchor, err := newAnchor(w, "anchor_b", spec)
	if err != nil {
		return 0, err
	}
	if err := ecs.Add(w, anchor, component.AnchorBTagComponent, component.AnchorBTag{}); err != nil {
		return 0, fmt.Errorf("anchor_b: add tag: %w", err)
	}
	return anchor, nil
}

func newAnchor(w *ecs.World, name string, spec prefabs.AnchorSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("%s: world is nil", name)
	}
	anchor := w.CreateEntity()
	if err := ecs.Add(w, anchor, component.TransformComponent, component.Transform{
		X: spec.Position.X,
		Y: spec.Position.Y,
	}); err != nil {
		return 0, fmt.Errorf("%s: add transform: %w", name, err)
	}
	if err := ecs.Add(w, anchor, component.PhysicsBodyComponent, component.PhysicsBody{
		Radius:    spec.Radius,
		Mass:      spec.Mass,
		Damping:   spec.Damping,
		Kinematic: spec.Kinematic,
	}); err != nil {
		return 0, fmt.Errorf("%s: add physics body: %w", name, err)
	}
	return anchor, nil
}
