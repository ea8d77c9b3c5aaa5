package main

import (
	"fmt"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/golangdaddy/roadster-dynamics/pkg/config"
	"github.com/golangdaddy/roadster-dynamics/pkg/game"
	"github.com/golangdaddy/roadster-dynamics/pkg/logging"
	"github.com/golangdaddy/roadster-dynamics/pkg/telemetry"
	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

func main() {
	flags := pflag.NewFlagSet("roadster", pflag.ExitOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("viewer stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	observers := []vehicle.Observer{
		telemetry.Decimate(cfg.Telemetry.Every, telemetry.LogObserver(logger)),
	}
	if cfg.Telemetry.Metrics {
		metrics, err := telemetry.NewMetrics(nil)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		defer metrics.Close()
		observers = append(observers, metrics)
	}

	g := game.NewGame(game.Options{
		Preset:   cfg.Car.Preset,
		Spec:     cfg.Spec,
		TickRate: cfg.Sim.TickRate,
		Course:   cfg.Sim.Course,
		Observer: telemetry.Multi(observers...),
		Logger:   logger,
	})

	ebiten.SetWindowSize(game.ScreenWidth, game.ScreenHeight)
	ebiten.SetWindowTitle("Roadster")
	ebiten.SetTPS(int(math.Round(cfg.Sim.TickRate)))

	logger.Info().
		Str("car", cfg.Spec.Name()).
		Float64("tickRate", cfg.Sim.TickRate).
		Msg("starting viewer")
	return ebiten.RunGame(g)
}
