package main

import (
	"flag"
	"log"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/tether/common"
	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/ecs/entity"
	"github.com/milk9111/tether/ecs/system"
	"github.com/milk9111/tether/logger"
	"github.com/milk9111/tether/prefabs"
)

// scriptedInput presses start on one frame and is idle otherwise.
type scriptedInput struct {
	frame   int
	startAt int
}

func (s *scriptedInput) Poll() component.Input {
	s.frame++
	return component.Input{StartSequence: s.frame == s.startAt, Preset: -1}
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	sceneName := flag.String("scene", "scene.yaml", "scene spec in prefabs/")
	frames := flag.Int("frames", 20*common.TPS, "frames to simulate")
	startAt := flag.Int("start-at", 3*common.TPS, "frame that starts the home sequence, 0 for never")
	flag.Parse()

	logger.Init(*debug)
	log.SetFlags(0)

	world := ecs.NewWorld()
	scene, spec, err := entity.LoadScene(world, *sceneName)
	if err != nil {
		log.Fatal(err)
	}
	space := entity.NewSpace(spec.Physics, spec.Statics)
	pipeline := system.NewPipeline(space, system.PhysicsSettings{
		Step:     spec.Physics.Step,
		MaxSteps: spec.Physics.MaxSteps,
	}, &scriptedInput{startAt: *startAt}, prefabs.LoadScript)

	out := logger.For("headless")
	for f := 1; f <= *frames; f++ {
		pipeline.Update(world)
		for _, evt := range world.Events().Drain() {
			out.WithFields(logrus.Fields{
				"frame": f,
				"data":  evt.Data,
			}).Info(string(evt.Type))
		}
		if f%common.TPS == 0 {
			report(out, world, scene, f)
		}
	}
}

func report(out *logrus.Entry, w *ecs.World, scene *entity.Scene, frame int) {
	fields := logrus.Fields{"t": float64(frame) * common.FrameDt}
	if r, ok := ecs.Get(w, scene.Rope, component.RopeComponent); ok && r.Chain != nil {
		fields["links"] = r.Chain.SegmentCount()
		fields["length"] = r.Chain.CurrentLength()
		fields["frozen"] = r.Chain.FrozenLinks()
		fields["settled"] = r.Settled
	}
	if b, ok := ecs.Get(w, scene.AnchorB, component.TransformComponent); ok {
		fields["b"] = [2]float64{b.X, b.Y}
	}
	if seq, ok := ecs.Get(w, scene.AnchorA, component.SequenceComponent); ok {
		fields["sequence"] = seq.Running
	}
	out.WithFields(fields).Info("state")
}
