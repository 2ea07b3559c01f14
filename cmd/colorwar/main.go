// Command colorwar runs the Color War match server and headless playouts.
//
// "serve" starts the HTTP/WebSocket spectator server; "demo" plays one
// automated match to completion and prints the outcome. Both read the same
// configuration file; flags override it.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/colorwargame/colorwar/internal/common"
	"github.com/colorwargame/colorwar/internal/config"
	"github.com/colorwargame/colorwar/internal/game"
	"github.com/colorwargame/colorwar/internal/game/events"
	"github.com/colorwargame/colorwar/internal/game/events/subscribers"
	"github.com/colorwargame/colorwar/internal/server"
	"github.com/colorwargame/colorwar/internal/sim"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "colorwar",
		Usage: "territory matches: spectator server and automated playouts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "human readable console logs",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			demoCommand(),
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the root logger. Flags win over
// the config file.
func setup(cmd *cli.Command) (*config.Config, zerolog.Logger, error) {
	if err := config.Init(cmd.String("config")); err != nil {
		return nil, zerolog.Nop(), err
	}
	cfg := config.Get()

	level := cfg.Server.LogLevel
	if s := cmd.String("log-level"); s != "" {
		level = s
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("parse log level %q: %w", level, err)
	}

	var logger zerolog.Logger
	if cmd.Bool("pretty") || cfg.Server.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	logger = logger.Level(parsed).With().Timestamp().Logger()

	return cfg, logger, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the spectator match server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "bind address (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "listen port (overrides config)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if host := cmd.String("host"); host != "" {
				cfg.Server.Host = host
			}
			if port := int(cmd.Int("port")); port != 0 {
				cfg.Server.Port = port
			}

			srv, err := server.New(cfg, logger)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
}

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "play one automated match and print the outcome",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "players",
				Usage: "seats at the table, 2 to 4 (overrides config)",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "fixed seed for a reproducible match (0 picks one)",
			},
			&cli.IntFlag{
				Name:  "max-moves",
				Usage: "moves before the match is abandoned undecided (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "ascii",
				Usage: "print the final board",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			return runDemo(ctx, cfg, logger, cmd)
		},
	}
}

func runDemo(ctx context.Context, cfg *config.Config, logger zerolog.Logger, cmd *cli.Command) error {
	players := cfg.Sim.Players
	if n := int(cmd.Int("players")); n != 0 {
		players = n
	}
	if players < 2 || players > len(common.AllColors) {
		return fmt.Errorf("players must be between 2 and %d, got %d", len(common.AllColors), players)
	}
	maxMoves := cfg.Sim.MaxMoves
	if n := int(cmd.Int("max-moves")); n != 0 {
		maxMoves = n
	}

	seed := int64(cmd.Int("seed"))
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	bus := events.NewEventBus()
	if cfg.Development.VerboseLogging {
		bus.Subscribe(subscribers.NewLoggerSubscriber("demo_events", logger))
	}

	engine, err := game.NewEngine(game.Config{
		Colors:   common.AllColors[:players],
		Rng:      rng,
		EventBus: bus,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	driver := sim.NewDriver(sim.NewRandomAgent(rng), logger)
	result, err := driver.Playout(ctx, engine, maxMoves)
	if err != nil {
		return err
	}

	fmt.Printf("match %s: %d moves, %d explosions, seed %d\n",
		result.MatchID, result.Moves, result.Explosions, seed)
	if result.Winner != game.NoWinner {
		fmt.Printf("winner: %s (seat %d)\n", result.WinnerColor, result.Winner)
	} else {
		fmt.Printf("no winner (%s)\n", result.Reason)
	}
	if cmd.Bool("ascii") {
		fmt.Print(engine.Board().String())
	}
	return nil
}
