package entity

import (
	"fmt"

	"golang.org/x/image/colornames"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/prefabs"
)

// NewRope creates the rope entity; the rope system builds the chain once both
// anchors have bodies.
func NewRope(w *ecs.World, spec prefabs.RopeSpec) (ecs.Entity, error) {
	cfg, err := spec.Config()
	if err != nil {
		return 0, fmt.Errorf("rope: %w", err)
	}

	r := w.CreateEntity()
	if err := ecs.Add(w, r, component.RopeComponent, component.Rope{Config: cfg}); err != nil {
		return 0, fmt.Errorf("rope: add rope: %w", err)
	}
	line := component.RopeLine{Width: cfg.Width, Color: colornames.Yellow}
	if spec.Color != nil {
		line.Color = spec.Color.Color
	}
	if err := ecs.Add(w, r, component.RopeLineComponent, line); err != nil {
		return 0, fmt.Errorf("rope: add line: %w", err)
	}
	return r, nil
}

// ReloadRope swaps the rope config and asks for a rebuild.
func ReloadRope(w *ecs.World, e ecs.Entity, spec prefabs.RopeSpec) error {
	cfg, err := spec.Config()
	if err != nil {
		return fmt.Errorf("rope: reload: %w", err)
	}
	r, ok := ecs.Get(w, e, component.RopeComponent)
	if !ok {
		return fmt.Errorf("rope: reload: %s has no rope", e)
	}
	r.Config = cfg
	r.Rebuild = true
	if err := ecs.Add(w, e, component.RopeComponent, r); err != nil {
		return fmt.Errorf("rope: reload: %w", err)
	}
	if line, ok := ecs.Get(w, e, component.RopeLineComponent); ok && spec.Color != nil {
		line.Color = spec.Color.Color
		_ = ecs.Add(w, e, component.RopeLineComponent, line)
	}
	return nil
}
