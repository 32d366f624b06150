package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tether/common"
	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
	"github.com/milk9111/tether/physics"
	"github.com/milk9111/tether/rope"
)

func TestProjectionToScreen(t *testing.T) {
	ppu := common.PixelsPerUnit
	tests := []struct {
		name         string
		view         component.CameraView
		world        mgl64.Vec2
		wantX, wantY float64
	}{
		{name: "centre", view: component.CameraView{Zoom: 1}, world: mgl64.Vec2{0, 0}, wantX: 400, wantY: 300},
		{name: "offset", view: component.CameraView{Zoom: 1}, world: mgl64.Vec2{1, 0.5}, wantX: 400 + ppu, wantY: 300 + ppu/2},
		{name: "camera moved", view: component.CameraView{Position: mgl64.Vec2{1, 1}, Zoom: 1}, world: mgl64.Vec2{1, 1}, wantX: 400, wantY: 300},
		{name: "zoomed", view: component.CameraView{Zoom: 2}, world: mgl64.Vec2{1, 0}, wantX: 400 + 2*ppu, wantY: 300},
		{name: "rotated", view: component.CameraView{Zoom: 1, Rotation: math.Pi / 2}, world: mgl64.Vec2{0, 1}, wantX: 400 + ppu, wantY: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Projection{View: tt.view, Width: 800, Height: 600}
			x, y := p.ToScreen(tt.world)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
		})
	}
}

func TestProjectionFor(t *testing.T) {
	p := ProjectionFor(nil, 640, 480)
	assert.Equal(t, 1.0, p.View.Zoom)

	w := ecs.NewWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, component.CameraComponent, component.Camera{
		View: component.CameraView{Position: mgl64.Vec2{2, 3}, Zoom: 0.5},
	}))
	p = ProjectionFor(w, 640, 480)
	assert.Equal(t, mgl64.Vec2{2, 3}, p.View.Position)
	assert.InDelta(t, common.PixelsPerUnit, p.Length(2), 1e-9)
}

func TestHUDText(t *testing.T) {
	w := ecs.NewWorld()
	r := w.CreateEntity()
	require.NoError(t, ecs.Add(w, r, component.RopeComponent, component.Rope{}))
	a := w.CreateEntity()
	require.NoError(t, ecs.Add(w, a, component.SequenceComponent, component.Sequence{}))

	text := HUDText(w)
	assert.Contains(t, text, "waiting for anchors")
	assert.Contains(t, text, "home: idle")
}

func TestHUDTextShowsAdjustment(t *testing.T) {
	space := physics.NewSpace(physics.DefaultSettings())
	a := space.NewAnchor(physics.AnchorDef{Kinematic: true})
	b := space.NewAnchor(physics.AnchorDef{Position: mgl64.Vec2{0, 1}, Mass: 0.2, Held: true})
	chain, err := rope.Build(space, a, b, rope.DefaultConfig())
	require.NoError(t, err)
	_, err = chain.BeginExtend(1, 2)
	require.NoError(t, err)
	chain.Update(0.5)

	w := ecs.NewWorld()
	e := w.CreateEntity()
	require.NoError(t, ecs.Add(w, e, component.RopeComponent, component.Rope{Chain: chain}))

	text := HUDText(w)
	assert.Contains(t, text, "adjusting -> 2.00 m")
	assert.Contains(t, text, "0.50/2.00 s")
	assert.Contains(t, text, " 25%")
}
