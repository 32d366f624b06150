package component

// Mover drives a kinematic body from Input, relative to the camera.
type Mover struct {
	Speed float64
}

var MoverComponent = NewComponent[Mover]()
