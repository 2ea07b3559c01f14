// Command ui_client opens a hot seat Color War match in a window. Every
// seat is played from the same machine; the banner tracks whose move it is.
package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/colorwargame/colorwar/internal/audio"
	"github.com/colorwargame/colorwar/internal/common"
	"github.com/colorwargame/colorwar/internal/config"
	"github.com/colorwargame/colorwar/internal/game"
	"github.com/colorwargame/colorwar/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	players := flag.Int("players", 2, "Seats at the table, 2 to 4")
	seed := flag.Int64("seed", 0, "Fixed seed for a reproducible turn order (0 picks one)")
	mute := flag.Bool("mute", false, "Disable sound effects")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := config.Init(*configPath); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	if *players < 2 || *players > len(common.AllColors) {
		logger.Fatal().Int("players", *players).Msg("Players must be between 2 and 4")
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}

	engine, err := game.NewEngine(game.Config{
		Colors: common.AllColors[:*players],
		Rng:    rng,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open match")
	}

	audioCfg := cfg.UI.Audio
	if *mute {
		audioCfg.Enabled = false
	}
	sounds := audio.NewManager(audioCfg, logger)
	defer sounds.Close()

	uiGame, err := ui.NewUIGame(engine, sounds, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build UI")
	}

	ebiten.SetWindowSize(ui.ScreenWidth(), ui.ScreenHeight())
	ebiten.SetWindowTitle(cfg.UI.Window.Title)

	if err := ebiten.RunGame(uiGame); err != nil {
		logger.Fatal().Err(err).Msg("UI stopped")
	}
}
