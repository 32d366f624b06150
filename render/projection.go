package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/tether/common"
	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
)

// Projection maps world metres to screen pixels for one camera view. The
// camera position lands at the screen centre.
type Projection struct {
	View          component.CameraView
	Width, Height float64
}

// ProjectionFor uses the first camera in w, or an identity view.
func ProjectionFor(w *ecs.World, width, height int) Projection {
	p := Projection{
		View:   component.CameraView{Zoom: 1},
		Width:  float64(width),
		Height: float64(height),
	}
	if w == nil {
		return p
	}
	if e, ok := w.First(component.CameraComponent.Kind()); ok {
		if cam, ok := ecs.Get(w, e, component.CameraComponent); ok {
			p.View = cam.View
		}
	}
	if p.View.Zoom <= 0 {
		p.View.Zoom = 1
	}
	return p
}

func (p Projection) scale() float64 {
	return common.PixelsPerUnit * p.View.Zoom
}

func (p Projection) ToScreen(v mgl64.Vec2) (float64, float64) {
	d := v.Sub(p.View.Position)
	sin, cos := math.Sincos(-p.View.Rotation)
	x := d[0]*cos - d[1]*sin
	y := d[0]*sin + d[1]*cos
	s := p.scale()
	return x*s + p.Width/2, y*s + p.Height/2
}

// Length converts a world length to pixels.
func (p Projection) Length(l float64) float64 {
	return l * p.scale()
}
