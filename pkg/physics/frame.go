package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Gravity in m/s^2
	Gravity = 9.81
	// Epsilon guards every division in the simulation.
	Epsilon = 1e-9
)

// NormalizeAngle wraps an angle into (-pi, pi].
func NormalizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	angle = math.Mod(angle, 2*math.Pi)
	if angle <= -math.Pi {
		angle += 2 * math.Pi
	} else if angle > math.Pi {
		angle -= 2 * math.Pi
	}
	return angle
}

// ToLocal rotates a world-frame vector into the body frame of a body with the
// given heading. The body frame has +Y forward and +X to the right.
func ToLocal(world mgl64.Vec2, heading float64) mgl64.Vec2 {
	c, s := math.Cos(heading), math.Sin(heading)
	return mgl64.Vec2{
		world.X()*c + world.Y()*s,
		-world.X()*s + world.Y()*c,
	}
}

// ToWorld is the inverse of ToLocal.
func ToWorld(local mgl64.Vec2, heading float64) mgl64.Vec2 {
	c, s := math.Cos(heading), math.Sin(heading)
	return mgl64.Vec2{
		local.X()*c - local.Y()*s,
		local.X()*s + local.Y()*c,
	}
}

// PointVelocity is the velocity of a point at offset r on a body spinning at
// omega, expressed in the same frame as r.
func PointVelocity(omega float64, r mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-omega * r.Y(), omega * r.X()}
}

// Cross2 is the scalar cross product r x f, i.e. the torque of f applied at r.
func Cross2(r, f mgl64.Vec2) float64 {
	return r.X()*f.Y() - r.Y()*f.X()
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Approach moves current toward target by at most step.
func Approach(current, target, step float64) float64 {
	if current < target {
		return math.Min(current+step, target)
	}
	return math.Max(current-step, target)
}
