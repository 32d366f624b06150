package entity

import (
	"fmt"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/prefabs"
)

// NewSpots creates one entity per spot, ordered as listed.
func NewSpots(w *ecs.World, specs []prefabs.SpotSpec) ([]ecs.Entity, error) {
	spots := make([]ecs.Entity, 0, len(specs))
	for i, spec := range specs {
		spot := w.CreateEntity()
		if err := ecs.Add(w, spot, component.TransformComponent, component.Transform{
			X: spec.Position.X,
			Y: spec.Position.Y,
		}); err != nil {
			return nil, fmt.Errorf("spot %d: add transform: %w", i, err)
		}
		if err := ecs.Add(w, spot, component.SpotComponent, component.Spot{Order: i}); err != nil {
			return nil, fmt.Errorf("spot %d: add spot: %w", i, err)
		}
		spots = append(spots, spot)
	}
	return spots, nil
}
