package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/physics"
	"github.com/milk9111/tether/rope"
)

// queuedInput returns next once, then neutral input.
type queuedInput struct {
	next *component.Input
}

func (q *queuedInput) Poll() component.Input {
	if q.next == nil {
		return component.Input{Preset: -1}
	}
	in := *q.next
	q.next = nil
	return in
}

func (q *queuedInput) press(in component.Input) {
	q.next = &in
}

type testScene struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	input     *queuedInput
	physics   *PhysicsSystem
	anchorA   ecs.Entity
	anchorB   ecs.Entity
	rope      ecs.Entity
	camera    ecs.Entity
	spots     []ecs.Entity
	events    []ecs.Event
}

func testRopeConfig() rope.Config {
	cfg := rope.DefaultConfig()
	cfg.Segments.UnitLength = 0.1
	cfg.Stabilize = rope.StabilizeConfig{SettleDelay: 0.05, AnchorReleaseDelay: 0.05}
	return cfg
}

func testSequenceSettings() component.SequenceSettings {
	return component.SequenceSettings{
		ExtendDuration:   0.1,
		WaitAfterExtend:  0.05,
		RetractDuration:  0.1,
		WaitBeforeSpot:   0.05,
		MoveSpeed:        10,
		ArrivalThreshold: 0.01,
	}
}

func newTestScene(t *testing.T, spotXs ...float64) *testScene {
	t.Helper()
	w := ecs.NewWorld()
	space := physics.NewSpace(physics.DefaultSettings())
	sc := &testScene{world: w, input: &queuedInput{}}

	inputEntity := w.CreateEntity()
	require.NoError(t, ecs.Add(w, inputEntity, component.InputComponent, component.Input{Preset: -1}))

	sc.anchorA = w.CreateEntity()
	require.NoError(t, ecs.Add(w, sc.anchorA, component.TransformComponent, component.Transform{}))
	require.NoError(t, ecs.Add(w, sc.anchorA, component.PhysicsBodyComponent, component.PhysicsBody{Radius: 0.05, Kinematic: true}))
	require.NoError(t, ecs.Add(w, sc.anchorA, component.AnchorATagComponent, component.AnchorATag{}))
	require.NoError(t, ecs.Add(w, sc.anchorA, component.MoverComponent, component.Mover{Speed: 2}))
	require.NoError(t, ecs.Add(w, sc.anchorA, component.SequenceComponent, component.Sequence{Settings: testSequenceSettings()}))

	sc.anchorB = w.CreateEntity()
	require.NoError(t, ecs.Add(w, sc.anchorB, component.TransformComponent, component.Transform{Y: 1}))
	require.NoError(t, ecs.Add(w, sc.anchorB, component.PhysicsBodyComponent, component.PhysicsBody{Radius: 0.05, Mass: 0.2}))
	require.NoError(t, ecs.Add(w, sc.anchorB, component.AnchorBTagComponent, component.AnchorBTag{}))

	sc.rope = w.CreateEntity()
	require.NoError(t, ecs.Add(w, sc.rope, component.RopeComponent, component.Rope{Config: testRopeConfig()}))

	sc.camera = w.CreateEntity()
	require.NoError(t, ecs.Add(w, sc.camera, component.CameraComponent, component.Camera{
		View: component.CameraView{Zoom: 1},
		Presets: []component.CameraPreset{
			{Name: "front", View: component.CameraView{Zoom: 1}},
			{Name: "side", View: component.CameraView{Position: mgl64.Vec2{2, 0}, Zoom: 2, Rotation: 3}},
		},
		MoveDuration: 0.5,
	}))

	for i, x := range spotXs {
		e := w.CreateEntity()
		require.NoError(t, ecs.Add(w, e, component.TransformComponent, component.Transform{X: x}))
		require.NoError(t, ecs.Add(w, e, component.SpotComponent, component.Spot{Order: i}))
		sc.spots = append(sc.spots, e)
	}

	pipeline := NewPipeline(space, PhysicsSettings{}, sc.input, nil)
	sc.physics = pipeline.Physics
	sc.scheduler = pipeline.Scheduler
	return sc
}

func (sc *testScene) frame() {
	sc.scheduler.Update(sc.world)
	sc.events = append(sc.events, sc.world.Events().Drain()...)
}

// runUntil runs frames until the event type has been seen.
func (sc *testScene) runUntil(t *testing.T, typ ecs.EventType, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if sc.seen(typ) {
			return
		}
		sc.frame()
	}
	require.True(t, sc.seen(typ), "no %s after %d frames", typ, limit)
}

func (sc *testScene) seen(typ ecs.EventType) bool {
	for _, e := range sc.events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func (sc *testScene) eventsOf(typ ecs.EventType) []ecs.Event {
	var out []ecs.Event
	for _, e := range sc.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func (sc *testScene) body(t *testing.T, e ecs.Entity) *physics.Body {
	t.Helper()
	body := entityBody(sc.world, e)
	require.NotNil(t, body)
	return body
}

func (sc *testScene) ropeComponent(t *testing.T) component.Rope {
	t.Helper()
	r, ok := ecs.Get(sc.world, sc.rope, component.RopeComponent)
	require.True(t, ok)
	return r
}
