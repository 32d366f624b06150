package main

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/tether/ecs"
	"github.com/milk9111/tether/ecs/entity"
	"github.com/milk9111/tether/ecs/system"
	"github.com/milk9111/tether/logger"
	"github.com/milk9111/tether/prefabs"
	"github.com/milk9111/tether/render"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

var background = color.RGBA{R: 0x1a, G: 0x1c, B: 0x24, A: 0xff}

type Game struct {
	world    *ecs.World
	pipeline *system.Pipeline
	ui       *ebitenui.UI
	scene    *entity.Scene
	spec     prefabs.SceneSpec

	physicsDebug bool
	watcher      *prefabs.Watcher
	log          *logrus.Entry
}

func NewGame(sceneName string, physicsDebug, watch bool) (*Game, error) {
	world := ecs.NewWorld()
	scene, spec, err := entity.LoadScene(world, sceneName)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", sceneName, err)
	}

	space := entity.NewSpace(spec.Physics, spec.Statics)
	input := NewInput(spec.Camera.Presets)
	pipeline := system.NewPipeline(space, system.PhysicsSettings{
		Step:     spec.Physics.Step,
		MaxSteps: spec.Physics.MaxSteps,
	}, input, prefabs.LoadScript)

	g := &Game{
		world:        world,
		pipeline:     pipeline,
		ui:           NewControlsUI(input, spec.Camera.Presets),
		scene:        scene,
		spec:         spec,
		physicsDebug: physicsDebug || spec.Physics.Debug,
		log:          logger.For("game"),
	}

	if watch {
		w, err := prefabs.NewWatcher("prefabs", filepath.Join("prefabs", "scripts"))
		if err != nil {
			g.log.WithError(err).Warn("prefab hot reload disabled")
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Update() error {
	g.pollReloads()
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.physicsDebug = !g.physicsDebug
	}
	g.ui.Update()
	g.pipeline.Update(g.world)

	for _, evt := range g.world.Events().Drain() {
		g.log.WithFields(logrus.Fields{
			"event":  string(evt.Type),
			"entity": evt.Entity.String(),
			"data":   evt.Data,
		}).Debug("event")
	}
	return nil
}

func (g *Game) pollReloads() {
	if g.watcher == nil {
		return
	}
	open := g.watcher.Pending(g.reload, func(err error) {
		g.log.WithError(err).Warn("watch prefabs")
	})
	if !open {
		g.log.Warn("prefab watcher closed, hot reload off")
		g.watcher = nil
	}
}

func (g *Game) reload(path string) {
	name := filepath.Base(path)
	log := g.log.WithField("file", name)
	switch name {
	case filepath.Base(g.spec.Rope):
		spec, err := prefabs.LoadRopeSpec(g.spec.Rope)
		if err != nil {
			log.WithError(err).Error("reload rope spec")
			return
		}
		if err := entity.ReloadRope(g.world, g.scene.Rope, spec); err != nil {
			log.WithError(err).Error("reload rope spec")
			return
		}
		log.Info("rope spec reloaded, rebuilding")
	case filepath.Base(g.spec.Sequence.Script):
		log.Info("sequence script changed, used on next start")
	default:
		log.Debug("prefab changed, restart to apply")
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	bounds := screen.Bounds()
	proj := render.ProjectionFor(g.world, bounds.Dx(), bounds.Dy())

	if g.physicsDebug {
		render.DrawPhysicsDebug(g.pipeline.Physics.Space().Space(), screen, proj)
	}
	render.DrawRopes(screen, g.world, proj)
	render.DrawMarkers(screen, g.world, proj)
	render.DrawHUD(screen, g.world)
	g.ui.Draw(screen)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f", ebiten.ActualFPS()), 10, bounds.Dy()-20)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
