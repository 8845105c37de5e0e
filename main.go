package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ameline/stillpond/internal/config"
	"github.com/ameline/stillpond/internal/game"
)

func main() {
	configPath := flag.String("config", "stillpond.json", "path to the JSON config file")
	musicDir := flag.String("music", "", "music directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *musicDir != "" {
		cfg.MusicDir = *musicDir
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("stillpond - space: play/pause, tab: library, q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game.New(cfg)); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
