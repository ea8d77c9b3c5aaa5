package vehicle

import (
	"math"

	"github.com/golangdaddy/roadster-dynamics/pkg/physics"
)

// updateLoadTransfer shares the car's weight between the four wheels from
// the static split and the previous tick's body-frame acceleration.
// Braking loads the front axle, cornering loads the outside wheels, and the
// total always equals the weight unless a wheel hits the floor.
func (c *Car) updateLoadTransfer() {
	spec := c.spec
	weight := c.Body.Mass * physics.Gravity
	frontBias := physics.Clamp(spec.FrontWeightBias, 0, 1)
	front := weight * frontBias / 2
	rear := weight * (1 - frontBias) / 2

	accel := physics.ToLocal(c.Body.Acceleration, c.Body.Heading())

	longitudinal := 0.0
	if spec.Wheelbase > physics.Epsilon {
		// total load moved onto the rear axle
		longitudinal = c.Body.Mass * accel.Y() * spec.CGHeight / spec.Wheelbase
	}
	lateral := 0.0
	if spec.TrackWidth > physics.Epsilon {
		// total load moved onto the left side
		lateral = c.Body.Mass * accel.X() * spec.CGHeight / spec.TrackWidth
	}

	floor := math.Max(spec.MinNormalForce, 0)
	c.FrontLeft.NormalForce = math.Max(front-longitudinal/2+lateral*frontBias, floor)
	c.FrontRight.NormalForce = math.Max(front-longitudinal/2-lateral*frontBias, floor)
	c.BackLeft.NormalForce = math.Max(rear+longitudinal/2+lateral*(1-frontBias), floor)
	c.BackRight.NormalForce = math.Max(rear+longitudinal/2-lateral*(1-frontBias), floor)
}
