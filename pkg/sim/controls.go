// Package sim drives a car at a fixed tick rate from a Driver, either a
// scripted scenario or live input.
package sim

import "github.com/golangdaddy/roadster-dynamics/pkg/vehicle"

// Controls is what a driver asks of the car for one tick.
type Controls struct {
	Throttle float64 `json:"throttle"` // 0..1
	Brake    float64 `json:"brake"`    // 0..1
	Steering float64 `json:"steering"` // -1 left .. 1 right
	Clutch   bool    `json:"clutch"`   // pedal down

	// Shift requests act on the tick they first appear.
	ShiftUp   bool `json:"shiftUp"`
	ShiftDown bool `json:"shiftDown"`
}

// Driver decides the controls for the next tick from the state after the
// last one.
type Driver interface {
	Controls(s vehicle.Snapshot) Controls
}

// DriverFunc adapts a function to Driver.
type DriverFunc func(vehicle.Snapshot) Controls

// Controls calls f(s).
func (f DriverFunc) Controls(s vehicle.Snapshot) Controls {
	return f(s)
}
