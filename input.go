package main

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/logger"
	"github.com/milk9111/tether/prefabs"
)

const stickDeadzone = 0.2

// Input samples keyboard, the first gamepad and requests from the on-screen
// controls.
type Input struct {
	presetKeys []ebiten.Key

	pendingStart  bool
	pendingPreset int
}

func NewInput(presets []prefabs.CameraPresetSpec) *Input {
	log := logger.For("input")
	in := &Input{pendingPreset: -1}
	for _, p := range presets {
		var key ebiten.Key
		if err := key.UnmarshalText([]byte(strings.ToUpper(p.Key))); err != nil {
			log.WithError(err).WithField("preset", p.Name).Warn("camera preset has no usable key")
			key = -1
		}
		in.presetKeys = append(in.presetKeys, key)
	}
	return in
}

func (i *Input) Poll() component.Input {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	start := inpututil.IsKeyJustPressed(ebiten.KeySpace)

	move := mgl64.Vec2{}
	if left {
		move[0] -= 1
	}
	if right {
		move[0] += 1
	}
	if up {
		move[1] += 1
	}
	if down {
		move[1] -= 1
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			// stick +Y is down
			move = mgl64.Vec2{lx, -ly}
		}
		start = start || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}

	preset := -1
	for idx, key := range i.presetKeys {
		if key >= 0 && inpututil.IsKeyJustPressed(key) {
			preset = idx
			break
		}
	}

	if i.pendingStart {
		start = true
		i.pendingStart = false
	}
	if i.pendingPreset >= 0 {
		preset = i.pendingPreset
		i.pendingPreset = -1
	}

	return component.Input{Move: move, StartSequence: start, Preset: preset}
}

func (i *Input) RequestStart() {
	i.pendingStart = true
}

func (i *Input) RequestPreset(idx int) {
	i.pendingPreset = idx
}
