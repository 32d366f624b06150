package component

import "github.com/milk9111/tether/physics"

// PhysicsBody stores the physics runtime body and the collider configuration
// it is created from.
type PhysicsBody struct {
	Body      *physics.Body
	Radius    float64
	Mass      float64
	Damping   float64
	Kinematic bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
