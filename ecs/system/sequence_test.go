package system

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
)

func TestSequencePlacesAnchorAtLastSpot(t *testing.T) {
	sc := newTestScene(t, -1, 1.5)
	sc.frame()

	assert.InDelta(t, 1.5, sc.body(t, sc.anchorA).Position()[0], 1e-9)
	assert.InDelta(t, 0, sc.body(t, sc.anchorA).Position()[1], 1e-9)
}

func TestSequenceRunsHomeRoutine(t *testing.T) {
	sc := newTestScene(t, -1, 1)
	sc.runUntil(t, ecs.EventRopeSettled, 600)
	chain := sc.ropeComponent(t).Chain
	initial := chain.InitialLength()

	sc.input.press(component.Input{StartSequence: true, Preset: -1})
	sc.runUntil(t, ecs.EventSequenceComplete, 1200)

	started := sc.eventsOf(ecs.EventSequenceStarted)
	require.Len(t, started, 1)
	assert.Equal(t, 5, started[0].Data)

	var order []int
	for _, e := range sc.eventsOf(ecs.EventSpotReached) {
		order = append(order, e.Data.(int))
	}
	assert.Equal(t, []int{0, 1}, order)
	assert.Len(t, sc.eventsOf(ecs.EventAdjustDone), 2)

	a := sc.body(t, sc.anchorA)
	assert.InDelta(t, 1, a.Position()[0], 0.02)
	assert.InDelta(t, 0, a.Position()[1], 1e-9)
	assert.Equal(t, mgl64.Vec2{}, a.Velocity())
	assert.InDelta(t, initial, chain.CurrentLength(), 1e-9)

	seq, ok := ecs.Get(sc.world, sc.anchorA, component.SequenceComponent)
	require.True(t, ok)
	assert.False(t, seq.Running)
}

func TestSequenceIgnoresStartWhileRunning(t *testing.T) {
	sc := newTestScene(t, -1, 1)
	sc.runUntil(t, ecs.EventRopeSettled, 600)

	sc.input.press(component.Input{StartSequence: true, Preset: -1})
	sc.frame()
	sc.input.press(component.Input{StartSequence: true, Preset: -1})
	sc.frame()

	assert.Len(t, sc.eventsOf(ecs.EventSequenceStarted), 1)
}

func TestSequenceNeedsSpots(t *testing.T) {
	sc := newTestScene(t)
	sc.frame()
	sc.input.press(component.Input{StartSequence: true, Preset: -1})
	sc.frame()

	assert.False(t, sc.seen(ecs.EventSequenceStarted))
}

func TestMoverBlockedWhileSequenceRunning(t *testing.T) {
	sc := newTestScene(t, -1, 1)
	sc.runUntil(t, ecs.EventRopeSettled, 600)

	sc.input.press(component.Input{StartSequence: true, Preset: -1})
	sc.frame()
	sc.input.press(component.Input{Move: mgl64.Vec2{1, 0}, Preset: -1})
	sc.frame()

	assert.Equal(t, mgl64.Vec2{}, sc.body(t, sc.anchorA).Velocity())
}

func TestMoverDrivesAnchor(t *testing.T) {
	sc := newTestScene(t, -1, 1)
	sc.frame()

	sc.input.press(component.Input{Move: mgl64.Vec2{1, 0}, Preset: -1})
	sc.frame()
	assert.InDelta(t, 2, sc.body(t, sc.anchorA).Velocity()[0], 1e-9)

	sc.frame()
	assert.Equal(t, mgl64.Vec2{}, sc.body(t, sc.anchorA).Velocity())
}

// sequenceOnly is a world with an input, a sequence entity and two spots and
// no physics.
func sequenceOnly(t *testing.T, script string) (*ecs.World, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	in := w.CreateEntity()
	require.NoError(t, ecs.Add(w, in, component.InputComponent, component.Input{StartSequence: true, Preset: -1}))

	e := w.CreateEntity()
	settings := testSequenceSettings()
	settings.Script = script
	require.NoError(t, ecs.Add(w, e, component.TransformComponent, component.Transform{}))
	require.NoError(t, ecs.Add(w, e, component.SequenceComponent, component.Sequence{Settings: settings}))

	for i, x := range []float64{3, 4} {
		spot := w.CreateEntity()
		require.NoError(t, ecs.Add(w, spot, component.TransformComponent, component.Transform{X: x}))
		require.NoError(t, ecs.Add(w, spot, component.SpotComponent, component.Spot{Order: i}))
	}
	return w, e
}

func TestSequenceScriptPlan(t *testing.T) {
	w, e := sequenceOnly(t, "plan.tengo")
	ss := NewSequenceSystem(func(path string) ([]byte, error) {
		assert.Equal(t, "plan.tengo", path)
		return []byte(`plan := [{op: "wait", duration: 1}, {op: "traverse"}]`), nil
	})
	ss.Update(w)

	seq, _ := ecs.Get(w, e, component.SequenceComponent)
	require.True(t, seq.Running)
	assert.Equal(t, []component.SequenceStep{
		{Op: component.SequenceWait, Duration: 1},
		{Op: component.SequenceTraverse},
	}, seq.Plan)

	tr, _ := ecs.Get(w, e, component.TransformComponent)
	assert.InDelta(t, 4, tr.X, 1e-9)
}

func TestSequenceScriptFailureFallsBack(t *testing.T) {
	w, e := sequenceOnly(t, "missing.tengo")
	ss := NewSequenceSystem(func(string) ([]byte, error) {
		return nil, errors.New("not found")
	})
	ss.Update(w)

	seq, _ := ecs.Get(w, e, component.SequenceComponent)
	require.True(t, seq.Running)
	assert.Equal(t, DefaultPlan(seq.Settings, PlanInputs{SpotCount: 2}), seq.Plan)
}

func TestSequenceTraverseWithoutBodyCompletes(t *testing.T) {
	w, e := sequenceOnly(t, "")
	ss := NewSequenceSystem(nil)
	ss.Update(w)
	inputEntity, ok := w.First(component.InputComponent.Kind())
	require.True(t, ok)
	require.NoError(t, ecs.Add(w, inputEntity, component.InputComponent, component.Input{Preset: -1}))
	for i := 0; i < 10; i++ {
		ss.Update(w)
	}

	seq, _ := ecs.Get(w, e, component.SequenceComponent)
	assert.False(t, seq.Running)
	assert.True(t, w.Events().Has(ecs.EventSequenceComplete))
}
