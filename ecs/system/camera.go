package system

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/tether/common"
	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/logger"
)

// CameraSystem moves the camera between its presets. Selecting a preset
// while a move is running restarts from the current view.
type CameraSystem struct {
	camEntity ecs.Entity
	frameDt   float64
	log       *logrus.Entry
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{
		frameDt: common.FrameDt,
		log:     logger.For("camera"),
	}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	if !w.IsAlive(cs.camEntity) {
		camEntity, ok := w.First(component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
	}

	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent)
	if !ok {
		return
	}

	if in := currentInput(w); in.Preset >= 0 {
		cs.selectPreset(w, &cam, in.Preset)
	}
	if cam.Moving {
		cs.advance(w, &cam)
	}

	if err := ecs.Add(w, cs.camEntity, component.CameraComponent, cam); err != nil {
		panic("camera system: update camera: " + err.Error())
	}
}

func (cs *CameraSystem) selectPreset(w *ecs.World, cam *component.Camera, idx int) {
	if idx >= len(cam.Presets) {
		cs.log.WithField("preset", idx).Warn("no such camera preset")
		return
	}
	preset := cam.Presets[idx]
	cs.log.WithFields(logrus.Fields{
		"preset":  preset.Name,
		"instant": cam.Instant,
	}).Debug("camera preset selected")

	cam.Target = idx
	if cam.Instant || cam.MoveDuration <= 0 {
		cam.View = preset.View
		cam.Moving = false
		w.Events().Push(ecs.Event{Type: ecs.EventCameraArrived, Entity: cs.camEntity, Data: idx})
		return
	}
	cam.From = cam.View
	cam.To = preset.View
	cam.Elapsed = 0
	cam.Moving = true
}

func (cs *CameraSystem) advance(w *ecs.World, cam *component.Camera) {
	cam.Elapsed += cs.frameDt
	t := cam.Elapsed / cam.MoveDuration
	if t >= 1 {
		cam.View = cam.To
		cam.Moving = false
		w.Events().Push(ecs.Event{Type: ecs.EventCameraArrived, Entity: cs.camEntity, Data: cam.Target})
		return
	}
	cam.View = BlendView(cam.From, cam.To, common.SmoothStep(t))
}

// BlendView interpolates two views; rotation takes the shorter way round.
func BlendView(from, to component.CameraView, t float64) component.CameraView {
	return component.CameraView{
		Position: from.Position.Add(to.Position.Sub(from.Position).Mul(t)),
		Zoom:     common.Lerp(from.Zoom, to.Zoom, t),
		Rotation: from.Rotation + shortestAngle(from.Rotation, to.Rotation)*t,
	}
}

func shortestAngle(from, to float64) float64 {
	d := math.Mod(to-from, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
