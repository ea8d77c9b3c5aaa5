package vehicle

import (
	"math"

	"github.com/golangdaddy/roadster-dynamics/pkg/physics"
)

// below this base angle both front wheels point straight ahead, rad
const minSteerAngle = 0.001

// ackermann splits a rack angle into left and right wheel angles so both
// front wheels turn about the same point on the rear axle line. Positive
// angles steer right, which makes the right wheel the inner one.
func ackermann(steeringAngle, rack, wheelbase, track float64) (left, right float64) {
	base := steeringAngle * rack
	if math.Abs(base) < minSteerAngle || wheelbase <= physics.Epsilon {
		return 0, 0
	}

	radius := wheelbase / math.Tan(math.Abs(base))
	innerRadius := math.Max(radius-track/2, physics.Epsilon)
	inner := math.Atan(wheelbase / innerRadius)
	outer := math.Atan(wheelbase / (radius + track/2))

	if base > 0 {
		return outer, inner
	}
	return -inner, -outer
}

// speedFactor narrows the steering lock as speed rises, down to half.
func speedFactor(speed, reference float64) float64 {
	if reference <= physics.Epsilon {
		return 1
	}
	return math.Max(0.5, 1-speed/reference*0.5)
}
