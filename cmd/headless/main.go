// Command headless runs a scripted scenario without a window, logs a
// summary and prints the final state as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/golangdaddy/roadster-dynamics/pkg/config"
	"github.com/golangdaddy/roadster-dynamics/pkg/logging"
	"github.com/golangdaddy/roadster-dynamics/pkg/road"
	"github.com/golangdaddy/roadster-dynamics/pkg/sim"
	"github.com/golangdaddy/roadster-dynamics/pkg/telemetry"
	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

func main() {
	flags := pflag.NewFlagSet("headless", pflag.ExitOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	script, err := sim.Scenario(cfg.Sim.Scenario)
	if err != nil {
		return err
	}
	logger = logger.With().Str("car", cfg.Spec.Name()).Str("scenario", script.Name).Logger()

	car := vehicle.NewCar(cfg.Spec)
	recorder := telemetry.NewRecorder(0)
	observers := []vehicle.Observer{
		recorder,
		telemetry.Decimate(cfg.Telemetry.Every, telemetry.LogObserver(logger)),
	}

	if cfg.Telemetry.Metrics {
		metrics, err := telemetry.NewMetrics(nil)
		if err != nil {
			return err
		}
		defer metrics.Close()
		observers = append(observers, metrics)
	}

	var course *road.Course
	if cfg.Sim.Course != "" {
		if course, err = road.Lookup(cfg.Sim.Course); err != nil {
			return err
		}
		observers = append(observers, vehicle.ObserverFunc(func(vehicle.Snapshot) {
			course.Update(car)
		}))
	}
	car.SetObserver(telemetry.Multi(observers...))

	runner, err := sim.NewRunner(car, script, cfg.Sim.TickRate, logger)
	if err != nil {
		return err
	}
	final, runErr := runner.Run(ctx, cfg.Sim.Duration.Seconds())

	summary(logger, recorder.Samples(), course)

	if cfg.Telemetry.PlotDir != "" {
		files, err := telemetry.WritePlots(cfg.Telemetry.PlotDir, recorder.Samples())
		if err != nil {
			return fmt.Errorf("writing plots: %w", err)
		}
		logger.Info().Strs("files", files).Msg("plots written")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(final); err != nil {
		return fmt.Errorf("encoding final state: %w", err)
	}
	return runErr
}

// summary logs the headline numbers of a run.
func summary(logger zerolog.Logger, samples []vehicle.Snapshot, course *road.Course) {
	if len(samples) == 0 {
		return
	}
	topSpeed, topRPM := 0.0, 0.0
	for _, s := range samples {
		topSpeed = max(topSpeed, s.Speed)
		topRPM = max(topRPM, s.Engine.RPM)
	}
	last := samples[len(samples)-1]

	event := logger.Info().
		Float64("t", last.Time).
		Float64("distance", last.Position.Len()).
		Float64("topSpeed", topSpeed).
		Float64("topRPM", topRPM).
		Float64("finalSpeed", last.Speed).
		Str("gear", last.Gearbox.Label)
	if course != nil {
		p := course.Progress()
		event = event.Int("conesPassed", p.Passed).Int("conesMissed", p.Missed).Int("conesHit", p.Hits)
	}
	event.Msg("summary")
}
