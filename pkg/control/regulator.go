package control

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
)

// Regulation is the per-wheel memory of both slip regulators.
type Regulation struct {
	PreviousTractionSlip float64
	PreviousBrakeSlip    float64
	TractionInterference float64 // percent of the request removed by traction control
	BrakeInterference    float64 // percent of the request removed by anti-lock
}

// Reset clears the derivative memory and the diagnostics.
func (r *Regulation) Reset() {
	*r = Regulation{}
}

// Wheel is what the regulators need to see of a road wheel.
type Wheel interface {
	SlipRatio(local mgl64.Vec2) float64
	AngularVelocity() float64
	Lock()
	Regulation() *Regulation
}

// pd is the proportional-derivative law shared by both regulators.
type pd struct {
	setpoint float64
	kp       float64
	kd       float64
}

func newPD(spec car.RegulatorSpec) pd {
	return pd{setpoint: spec.SlipSetpoint, kp: spec.Kp, kd: spec.Kd}
}

// adjust applies the law to a request and returns the adjusted torque.
func (p pd) adjust(requested, slip, previous float64) float64 {
	err := p.setpoint - slip
	return requested + p.kp*err - p.kd*(slip-previous)
}
