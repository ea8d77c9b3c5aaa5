package control

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
)

const (
	// below this wheel speed the wheel counts as stopped, rad/s
	lockedWheelSpeed = 1e-3
	// below this vehicle speed slip ratios are meaningless, m/s
	standstillSpeed = 0.1
)

// AntiLockBrakes releases brake pressure on a wheel whose slip ratio falls
// below the (negative) setpoint.
type AntiLockBrakes struct {
	law          pd
	interference float64
}

// NewAntiLockBrakes builds the regulator from its gains.
func NewAntiLockBrakes(spec car.RegulatorSpec) AntiLockBrakes {
	return AntiLockBrakes{law: newPD(spec)}
}

// Regulate turns a brake request (a magnitude) into a signed torque for the
// wheel. The result never accelerates the wheel.
func (abs *AntiLockBrakes) Regulate(w Wheel, requestedTorque float64, local mgl64.Vec2, vehicleSpeed float64) float64 {
	reg := w.Regulation()
	abs.interference = 0
	requested := math.Abs(requestedTorque)
	if requested == 0 {
		reg.BrakeInterference = 0
		return 0
	}

	omega := w.AngularVelocity()
	if math.Abs(omega) < lockedWheelSpeed {
		w.Lock()
		reg.BrakeInterference = 0
		return 0
	}

	base := -requested * sign(omega)
	if vehicleSpeed < standstillSpeed {
		reg.BrakeInterference = 0
		return base
	}

	slip := w.SlipRatio(local)
	adjusted := abs.law.adjust(base, slip, reg.PreviousBrakeSlip)
	reg.PreviousBrakeSlip = slip

	// braking may only oppose the spin
	if adjusted*omega > 0 {
		adjusted = 0
	}
	abs.interference = math.Max(0, requested-math.Abs(adjusted)) / requested * 100
	reg.BrakeInterference = abs.interference
	return adjusted
}

// InterferencePercent is the share of the last request released, over
// whichever wheel was regulated last.
func (abs *AntiLockBrakes) InterferencePercent() float64 {
	return abs.interference
}

// Setpoint is the target slip ratio.
func (abs *AntiLockBrakes) Setpoint() float64 {
	return abs.law.setpoint
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
