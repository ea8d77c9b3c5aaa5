package control

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
)

// TractionControl trims drive torque on a wheel whose slip ratio runs past
// the setpoint.
type TractionControl struct {
	law          pd
	interference float64
}

// NewTractionControl builds the regulator from its gains.
func NewTractionControl(spec car.RegulatorSpec) TractionControl {
	return TractionControl{law: newPD(spec)}
}

// Regulate returns the drive torque to apply to the wheel. The result is never
// negative. Below the setpoint the law may ask for more than the request.
func (tc *TractionControl) Regulate(w Wheel, requestedTorque float64, local mgl64.Vec2) float64 {
	reg := w.Regulation()
	if requestedTorque <= 0 {
		reg.TractionInterference = 0
		tc.interference = 0
		return 0
	}

	slip := w.SlipRatio(local)
	adjusted := tc.law.adjust(requestedTorque, slip, reg.PreviousTractionSlip)
	reg.PreviousTractionSlip = slip

	adjusted = math.Max(0, adjusted)
	tc.interference = math.Max(0, (requestedTorque-adjusted)/requestedTorque) * 100
	reg.TractionInterference = tc.interference
	return adjusted
}

// InterferencePercent is the share of the last request removed, over
// whichever wheel was regulated last.
func (tc *TractionControl) InterferencePercent() float64 {
	return tc.interference
}

// Setpoint is the target slip ratio.
func (tc *TractionControl) Setpoint() float64 {
	return tc.law.setpoint
}
