package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/physics"
)

func vec(x, y float64) mgl64.Vec2 {
	return mgl64.Vec2{x, y}
}

// bodyOf returns the live physics body of the first entity with the tag.
func bodyOf[T any](w *ecs.World, tag component.ComponentHandle[T]) (ecs.Entity, *physics.Body, bool) {
	e, ok := w.First(tag.Kind())
	if !ok {
		return 0, nil, false
	}
	bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
	if !ok || bodyComp.Body == nil || !bodyComp.Body.Alive() {
		return e, nil, false
	}
	return e, bodyComp.Body, true
}

// firstRope returns the first entity with a Rope component.
func firstRope(w *ecs.World) (ecs.Entity, component.Rope, bool) {
	e, ok := w.First(component.RopeComponent.Kind())
	if !ok {
		return 0, component.Rope{}, false
	}
	r, ok := ecs.Get(w, e, component.RopeComponent)
	return e, r, ok
}

// currentInput returns the first Input component, or a neutral one.
func currentInput(w *ecs.World) component.Input {
	e, ok := w.First(component.InputComponent.Kind())
	if !ok {
		return component.Input{Preset: -1}
	}
	in, ok := ecs.Get(w, e, component.InputComponent)
	if !ok {
		return component.Input{Preset: -1}
	}
	return in
}
