package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
)

// MoverSystem drives Mover entities from the move axis, relative to the
// active camera's rotation. It yields to a running home sequence.
type MoverSystem struct{}

func NewMoverSystem() *MoverSystem {
	return &MoverSystem{}
}

func (ms *MoverSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	in := currentInput(w)
	right, up := cameraAxes(w)

	for _, e := range w.Query(component.MoverComponent.Kind(), component.PhysicsBodyComponent.Kind()) {
		if seq, ok := ecs.Get(w, e, component.SequenceComponent); ok && seq.Running {
			continue
		}
		body := entityBody(w, e)
		if body == nil {
			continue
		}
		mover, _ := ecs.Get(w, e, component.MoverComponent)
		body.SetVelocity(MoveVelocity(in.Move, right, up, mover.Speed))
	}
}

// MoveVelocity maps a screen-space axis onto the camera's world axes. The
// result has length speed for any non-zero input.
func MoveVelocity(axis, right, up mgl64.Vec2, speed float64) mgl64.Vec2 {
	dir := right.Mul(axis[0]).Add(up.Mul(axis[1]))
	if dir.Len() < 1e-9 {
		return mgl64.Vec2{}
	}
	return dir.Normalize().Mul(speed)
}

// cameraAxes returns the world directions of screen right and screen up.
// World +Y points down.
func cameraAxes(w *ecs.World) (mgl64.Vec2, mgl64.Vec2) {
	rot := 0.0
	if e, ok := w.First(component.CameraComponent.Kind()); ok {
		if cam, ok := ecs.Get(w, e, component.CameraComponent); ok {
			rot = cam.View.Rotation
		}
	}
	sin, cos := math.Sincos(rot)
	return vec(cos, sin), vec(sin, -cos)
}
