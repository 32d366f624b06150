package entity

import (
	"fmt"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/physics"
	"github.com/milk9111/tether/prefabs"
)

// Scene holds the entities of a rope scene.
type Scene struct {
	Input   ecs.Entity
	AnchorA ecs.Entity
	AnchorB ecs.Entity
	Rope    ecs.Entity
	Camera  ecs.Entity
	Spots   []ecs.Entity
}

// NewScene populates w from a scene spec and its rope spec.
func NewScene(w *ecs.World, scene prefabs.SceneSpec, ropeSpec prefabs.RopeSpec) (*Scene, error) {
	if w == nil {
		return nil, fmt.Errorf("scene: world is nil")
	}
	s := &Scene{}
	var err error

	s.Input = w.CreateEntity()
	if err := ecs.Add(w, s.Input, component.InputComponent, component.Input{Preset: -1}); err != nil {
		return nil, fmt.Errorf("scene: add input: %w", err)
	}
	if s.AnchorA, err = NewAnchorA(w, scene.AnchorA, scene.Sequence); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if s.AnchorB, err = NewAnchorB(w, scene.AnchorB); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if s.Rope, err = NewRope(w, ropeSpec); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if s.Camera, err = NewCamera(w, scene.Camera); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if s.Spots, err = NewSpots(w, scene.Spots); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return s, nil
}

// LoadScene reads the named scene spec and the rope spec it refers to.
func LoadScene(w *ecs.World, filename string) (*Scene, prefabs.SceneSpec, error) {
	scene, err := prefabs.LoadSceneSpec(filename)
	if err != nil {
		return nil, prefabs.SceneSpec{}, err
	}
	ropeSpec, err := prefabs.LoadRopeSpec(scene.Rope)
	if err != nil {
		return nil, prefabs.SceneSpec{}, err
	}
	s, err := NewScene(w, scene, ropeSpec)
	if err != nil {
		return nil, prefabs.SceneSpec{}, err
	}
	return s, scene, nil
}

// NewSpace creates the physics space for a scene, with its static geometry.
func NewSpace(spec prefabs.PhysicsSpec, statics []prefabs.StaticSpec) *physics.Space {
	settings := physics.DefaultSettings()
	if g := spec.Gravity.Vec(); g.Len() > 0 {
		settings.Gravity = g
	}
	if spec.Damping > 0 {
		settings.Damping = spec.Damping
	}
	space := physics.NewSpace(settings)
	for _, s := range statics {
		space.AddStaticSegment(s.A.Vec(), s.B.Vec(), s.Radius)
	}
	return space
}
