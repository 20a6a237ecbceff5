package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/doodlai/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "configuration file (defaults are used when absent)")
	debug := flag.Bool("debug", false, "enable debug logging and the stats overlay")
	watch := flag.Bool("watch", false, "retry missing textures when their files appear")
	printConfig := flag.Bool("print-config", false, "write the default configuration to stdout and exit")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *printConfig {
		fmt.Print(config.DefaultYAML)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	cfg.Debug = cfg.Debug || *debug
	cfg.Watch = cfg.Watch || *watch
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetVsyncEnabled(cfg.Window.VSync)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	game, err := NewGame(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create game")
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Error().Err(err).Msg("game loop")
	}
	log.Debug().Msg("see you next time")
}
