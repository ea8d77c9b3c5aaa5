package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/golangdaddy/roadster-dynamics/pkg/physics"
	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

// Runner owns a car and steps it at a fixed rate with the controls its
// driver chooses.
type Runner struct {
	car    *vehicle.Car
	driver Driver
	dt     float64
	logger zerolog.Logger

	last Controls
}

// NewRunner prepares car to be driven by driver at tickRate ticks per
// second. A Script driver also sets the starting speed.
func NewRunner(car *vehicle.Car, driver Driver, tickRate float64, logger zerolog.Logger) (*Runner, error) {
	if car == nil {
		return nil, errors.New("runner needs a car")
	}
	if driver == nil {
		return nil, errors.New("runner needs a driver")
	}
	if !(tickRate > 0) || math.IsInf(tickRate, 0) {
		return nil, fmt.Errorf("tick rate must be positive, got %v", tickRate)
	}

	if s, ok := driver.(*Script); ok && s.InitialSpeed != 0 {
		setSpeed(car, s.InitialSpeed)
	}
	return &Runner{
		car:    car,
		driver: driver,
		dt:     1 / tickRate,
		logger: logger,
	}, nil
}

// setSpeed puts the body and every wheel in rolling motion along the
// heading.
func setSpeed(car *vehicle.Car, speed float64) {
	car.SetVelocity(physics.ToWorld(mgl64.Vec2{0, speed}, car.Heading()))
	for _, w := range car.Wheels() {
		w.SetLinearVelocity(speed)
	}
}

// Car is the car being driven.
func (r *Runner) Car() *vehicle.Car {
	return r.car
}

// TickDuration is the fixed step in seconds.
func (r *Runner) TickDuration() float64 {
	return r.dt
}

// Step applies one tick of driver controls and advances the car.
func (r *Runner) Step() vehicle.Snapshot {
	c := r.driver.Controls(r.car.Snapshot())
	r.apply(c)
	r.car.Step(r.dt)
	return r.car.Snapshot()
}

func (r *Runner) apply(c Controls) {
	r.car.SetThrottle(c.Throttle)
	r.car.SetBrake(c.Brake)
	r.car.SetSteering(c.Steering)

	if c.Clutch {
		r.car.HoldClutch()
	} else {
		r.car.ReleaseClutch()
	}

	if c.ShiftUp && !r.last.ShiftUp {
		r.shift(r.car.ShiftUp(), "up")
	}
	if c.ShiftDown && !r.last.ShiftDown {
		r.shift(r.car.ShiftDown(), "down")
	}
	r.last = c
}

func (r *Runner) shift(ok bool, direction string) {
	gear := vehicle.GearLabel(r.car.Gearbox.CurrentGear())
	if !ok {
		r.logger.Debug().Str("direction", direction).Str("gear", gear).Msg("shift refused")
		return
	}
	r.logger.Debug().
		Str("direction", direction).
		Str("gear", gear).
		Float64("rpm", r.car.Engine.RPM()).
		Msg("shifted")
}

// Run steps the car for the given simulated time, stopping early if ctx is
// done. It returns the last snapshot.
func (r *Runner) Run(ctx context.Context, seconds float64) (vehicle.Snapshot, error) {
	ticks := int(math.Round(seconds / r.dt))
	r.logger.Info().
		Float64("seconds", seconds).
		Int("ticks", ticks).
		Float64("dt", r.dt).
		Msg("run started")

	snap := r.car.Snapshot()
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			r.logger.Warn().Err(err).Uint64("tick", snap.Tick).Msg("run interrupted")
			return snap, err
		}
		snap = r.Step()
	}

	r.logger.Info().
		Uint64("ticks", snap.Tick).
		Float64("t", snap.Time).
		Float64("speed", snap.Speed).
		Float64("x", snap.Position.X()).
		Float64("y", snap.Position.Y()).
		Float64("heading", snap.Heading).
		Str("gear", snap.Gearbox.Label).
		Msg("run finished")
	return snap, nil
}
