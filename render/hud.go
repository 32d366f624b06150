package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/component"
)

func vec(x, y float64) mgl64.Vec2 {
	return mgl64.Vec2{x, y}
}

// HUDText summarises the rope, the sequence and the camera.
func HUDText(w *ecs.World) string {
	var b strings.Builder
	if e, ok := w.First(component.RopeComponent.Kind()); ok {
		r, _ := ecs.Get(w, e, component.RopeComponent)
		switch {
		case r.Chain == nil:
			b.WriteString("rope: waiting for anchors\n")
		default:
			state := "settled"
			if r.Stabilizer != nil && !r.Settled {
				state = r.Stabilizer.State().String()
			}
			fmt.Fprintf(&b, "rope: %d links  length %.2f m  (built %.2f)  %s\n",
				r.Chain.SegmentCount(), r.Chain.CurrentLength(), r.Chain.InitialLength(), state)
			if adj := r.Chain.Adjustment(); adj != nil {
				fmt.Fprintf(&b, "adjusting -> %.2f m  %.2f/%.2f s  %3.0f%%\n",
					adj.Target, adj.Elapsed(), adj.Duration, adj.Progress()*100)
			}
		}
	}
	if e, ok := w.First(component.SequenceComponent.Kind()); ok {
		seq, _ := ecs.Get(w, e, component.SequenceComponent)
		if seq.Running && seq.Step < len(seq.Plan) {
			fmt.Fprintf(&b, "home: step %d/%d %s\n", seq.Step+1, len(seq.Plan), seq.Plan[seq.Step].Op)
		} else {
			b.WriteString("home: idle (space)\n")
		}
	}
	if e, ok := w.First(component.CameraComponent.Kind()); ok {
		cam, _ := ecs.Get(w, e, component.CameraComponent)
		name := "-"
		if cam.Target >= 0 && cam.Target < len(cam.Presets) {
			name = cam.Presets[cam.Target].Name
		}
		fmt.Fprintf(&b, "camera: %s  zoom %.2f\n", name, cam.View.Zoom)
	}
	return b.String()
}

func DrawHUD(screen *ebiten.Image, w *ecs.World) {
	if screen == nil || w == nil {
		return
	}
	ebitenutil.DebugPrintAt(screen, HUDText(w), 10, 10)
}
