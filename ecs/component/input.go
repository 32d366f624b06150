package component

import "github.com/go-gl/mathgl/mgl64"

// Input stores per-frame input state.
type Input struct {
	// Move is the raw axis input, screen-relative: +X right, +Y up.
	Move          mgl64.Vec2
	StartSequence bool
	// Preset is the camera preset index selected this frame, or -1.
	Preset int
}

var InputComponent = NewComponent[Input]()
