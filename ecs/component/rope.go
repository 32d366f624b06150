package component

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/tether/rope"
)

// Rope holds a chain built between the AnchorA and AnchorB entities.
type Rope struct {
	Config     rope.Config
	Chain      *rope.Chain
	Stabilizer *rope.Stabilizer
	Settled    bool
	// Rebuild asks the rope system to tear the chain down and build it again.
	Rebuild bool
}

var RopeComponent = NewComponent[Rope]()

// RopeLine is the render feed: anchor A, every link, anchor B.
type RopeLine struct {
	Points []mgl64.Vec2
	Width  float64
	Color  color.Color
}

var RopeLineComponent = NewComponent[RopeLine]()
