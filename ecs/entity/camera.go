package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/prefabs"
)

func NewCamera(w *ecs.World, spec prefabs.CameraSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("camera: world is nil")
	}

	zoom := spec.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	cam := component.Camera{
		View: component.CameraView{
			Position: spec.Position.Vec(),
			Zoom:     zoom,
		},
		MoveDuration: spec.MoveDuration,
		Instant:      spec.Instant,
	}
	for _, p := range spec.Presets {
		presetZoom := p.Zoom
		if presetZoom <= 0 {
			presetZoom = zoom
		}
		cam.Presets = append(cam.Presets, component.CameraPreset{
			Name: p.Name,
			View: component.CameraView{
				Position: p.Position.Vec(),
				Zoom:     presetZoom,
				Rotation: mgl64.DegToRad(p.RotationDeg),
			},
		})
	}

	camera := w.CreateEntity()
	if err := ecs.Add(w, camera, component.CameraComponent, cam); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return camera, nil
}
