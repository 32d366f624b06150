package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tether/logger"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	physicsDebug := flag.Bool("physics", false, "draw physics shapes and joints")
	sceneName := flag.String("scene", "scene.yaml", "scene spec in prefabs/")
	watch := flag.Bool("watch", true, "reload prefabs/ specs when they change on disk")
	flag.Parse()

	logger.Init(*debug)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("tether")

	game, err := NewGame(*sceneName, *physicsDebug, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
