package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
)

const minStrokePx = 1

// DrawRopes strokes every RopeLine as a polyline.
func DrawRopes(screen *ebiten.Image, w *ecs.World, proj Projection) {
	if screen == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.RopeLineComponent, func(_ ecs.Entity, line component.RopeLine) {
		drawPolyline(screen, line, proj)
	})
}

func drawPolyline(screen *ebiten.Image, line component.RopeLine, proj Projection) {
	if len(line.Points) < 2 {
		return
	}
	clr := line.Color
	if clr == nil {
		clr = colornames.Yellow
	}
	width := float32(max(proj.Length(line.Width), minStrokePx))

	x0, y0 := proj.ToScreen(line.Points[0])
	for _, pt := range line.Points[1:] {
		x1, y1 := proj.ToScreen(pt)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, clr, true)
		x0, y0 = x1, y1
	}
}

// DrawMarkers outlines the anchors and spots.
func DrawMarkers(screen *ebiten.Image, w *ecs.World, proj Projection) {
	if screen == nil || w == nil {
		return
	}
	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		t, _ := ecs.Get(w, e, component.TransformComponent)
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
		x, y := proj.ToScreen(vec(t.X, t.Y))
		r := float32(max(proj.Length(body.Radius), 3))
		clr := colornames.Lightgrey
		if body.Kinematic {
			clr = colornames.Deepskyblue
		}
		vector.StrokeCircle(screen, float32(x), float32(y), r, 2, clr, true)
	}
	for _, e := range w.Query(component.SpotComponent.Kind(), component.TransformComponent.Kind()) {
		t, _ := ecs.Get(w, e, component.TransformComponent)
		x, y := proj.ToScreen(vec(t.X, t.Y))
		vector.StrokeRect(screen, float32(x)-4, float32(y)-4, 8, 8, 1, colornames.Limegreen, false)
	}
}
