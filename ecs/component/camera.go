package component

import "github.com/go-gl/mathgl/mgl64"

// CameraView is a camera pose. Position is the world point at screen centre.
type CameraView struct {
	Position mgl64.Vec2
	Zoom     float64
	Rotation float64
}

type CameraPreset struct {
	Name string
	View CameraView
}

type Camera struct {
	View    CameraView
	Presets []CameraPreset

	MoveDuration float64
	Instant      bool

	Moving  bool
	From    CameraView
	To      CameraView
	Elapsed float64
	Target  int
}

var CameraComponent = NewComponent[Camera]()
