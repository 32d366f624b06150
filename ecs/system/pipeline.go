package system

import (
	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/physics"
)

// Pipeline is the frame schedule of a rope scene.
type Pipeline struct {
	Scheduler *ecs.Scheduler
	Physics   *PhysicsSystem
	Rope      *RopeSystem
	Sequence  *SequenceSystem
}

// NewPipeline orders the systems: input, sequence, mover and camera write
// intent; physics steps the space with the stabilizers as step listeners;
// the rope system then advances adjustments and writes the visual feed.
func NewPipeline(space *physics.Space, settings PhysicsSettings, input InputSource, loadScript ScriptLoader) *Pipeline {
	p := &Pipeline{
		Physics:  NewPhysicsSystem(space, settings),
		Rope:     NewRopeSystem(space),
		Sequence: NewSequenceSystem(loadScript),
	}
	p.Physics.AddListener(p.Rope)
	p.Scheduler = ecs.NewScheduler(
		NewInputSystem(input),
		p.Sequence,
		NewMoverSystem(),
		NewCameraSystem(),
		p.Physics,
		p.Rope,
	)
	return p
}

func (p *Pipeline) Update(w *ecs.World) {
	p.Scheduler.Update(w)
}
