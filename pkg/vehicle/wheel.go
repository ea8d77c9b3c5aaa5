package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/golangdaddy/roadster-dynamics/pkg/control"
	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
	"github.com/golangdaddy/roadster-dynamics/pkg/physics"
)

const (
	// slips and lateral speeds below this produce no tire force, m/s
	slipEpsilon = 1e-5
	// below this forward speed the slip ratio is reported as zero, m/s
	slipRatioMinSpeed = 0.1
)

// Wheel is a road wheel: its spin, its steer angle and the tire that
// connects it to the ground. It does not carry a linear state of its own;
// the car supplies the contact-patch velocity.
type Wheel struct {
	Name                string
	Angle               float64    // steer angle, rad, positive to the right
	Offset              mgl64.Vec2 // from the centre of mass, body frame, m
	Radius              float64    // m
	FrictionCoefficient float64
	NormalForce         float64 // N, written by load transfer
	NominalLoad         float64 // N
	GripLevel           float64 // 0..1, share of available grip in use
	Spin                physics.AngularState

	tire        car.TireSpec
	brakeTorque float64
	regulation  control.Regulation
	lastForce   mgl64.Vec2
}

// NewWheel builds a wheel at the given body-frame offset.
func NewWheel(name string, offset mgl64.Vec2, spec car.WheelSpec, tire car.TireSpec, nominalLoad float64) Wheel {
	return Wheel{
		Name:                name,
		Offset:              offset,
		Radius:              spec.Radius,
		FrictionCoefficient: spec.FrictionCoefficient,
		NormalForce:         nominalLoad,
		NominalLoad:         nominalLoad,
		Spin:                physics.AngularState{Inertia: spec.Inertia()},
		tire:                tire,
	}
}

// Forward is the rolling direction in the body frame.
func (w *Wheel) Forward() mgl64.Vec2 {
	return mgl64.Vec2{math.Sin(w.Angle), math.Cos(w.Angle)}
}

// Right is the axle direction in the body frame.
func (w *Wheel) Right() mgl64.Vec2 {
	return mgl64.Vec2{math.Cos(w.Angle), -math.Sin(w.Angle)}
}

// AngularVelocity is the spin rate in rad/s.
func (w *Wheel) AngularVelocity() float64 {
	return w.Spin.Velocity
}

// SetAngularVelocity overrides the spin rate.
func (w *Wheel) SetAngularVelocity(omega float64) {
	w.Spin.Velocity = omega
}

// LinearVelocity is the surface speed of the tread.
func (w *Wheel) LinearVelocity() float64 {
	return w.Spin.Velocity * w.Radius
}

// SetLinearVelocity spins the wheel so its tread moves at v.
func (w *Wheel) SetLinearVelocity(v float64) {
	if w.Radius <= physics.Epsilon {
		w.Spin.Velocity = 0
		return
	}
	w.Spin.Velocity = v / w.Radius
}

// Lock stops the wheel dead.
func (w *Wheel) Lock() {
	w.Spin.Velocity = 0
}

// Regulation exposes the slip regulator memory kept on this wheel.
func (w *Wheel) Regulation() *control.Regulation {
	return &w.regulation
}

// AddTorque accumulates drive or reaction torque.
func (w *Wheel) AddTorque(torque float64) {
	w.Spin.AddTorque(torque)
}

// AddBrakeTorque accumulates brake torque. Brakes act as friction: at
// integration they can stop the wheel but never spin it the other way.
func (w *Wheel) AddBrakeTorque(torque float64) {
	w.brakeTorque += torque
}

// BrakeTorque is the brake torque accumulated this tick.
func (w *Wheel) BrakeTorque() float64 {
	return w.brakeTorque
}

// LastForce is the tire force of the latest tick in world coordinates.
func (w *Wheel) LastForce() mgl64.Vec2 {
	return w.lastForce
}

// SlipRatio compares tread speed with ground speed along the rolling
// direction. local is the contact-patch velocity in the body frame.
func (w *Wheel) SlipRatio(local mgl64.Vec2) float64 {
	v := local.Dot(w.Forward())
	if math.Abs(v) < slipRatioMinSpeed {
		return 0
	}
	return (w.LinearVelocity() - v) / math.Abs(v)
}

// loadMass is the share of vehicle mass resting on the wheel.
func (w *Wheel) loadMass() float64 {
	return w.NormalForce / physics.Gravity
}

// MaxFrictionForce is the grip available at the current normal load.
func (w *Wheel) MaxFrictionForce() float64 {
	if w.NormalForce <= 0 {
		return 0
	}
	if w.tire.LoadSensitivity > 0 && w.NominalLoad > physics.Epsilon {
		return w.NominalLoad * w.FrictionCoefficient * math.Pow(w.NormalForce/w.NominalLoad, w.tire.LoadSensitivity)
	}
	return w.NormalForce * w.FrictionCoefficient
}

// CalculateFriction returns the tire force in the body frame for a contact
// patch moving at local. The reaction of the longitudinal force is added to
// the wheel's own torque.
func (w *Wheel) CalculateFriction(local mgl64.Vec2, dt float64) mgl64.Vec2 {
	w.GripLevel = 0
	if dt <= 0 {
		return mgl64.Vec2{}
	}

	forward, right := w.Forward(), w.Right()
	forwardSpeed := local.Dot(forward)
	lateralSpeed := local.Dot(right)
	maxForce := w.MaxFrictionForce()
	mass := w.loadMass()

	longitudinal := 0.0
	if slip := w.LinearVelocity() - forwardSpeed; math.Abs(slip) > slipEpsilon {
		required := slip / dt * mass * w.tire.LongitudinalResponse
		longitudinal = physics.Clamp(required, -maxForce, maxForce)
	}

	lateral := 0.0
	if math.Abs(lateralSpeed) > slipEpsilon {
		if math.Hypot(forwardSpeed, lateralSpeed) < w.tire.LowSpeedThreshold {
			required := -lateralSpeed / dt * mass * w.tire.LateralResponse
			lateral = physics.Clamp(required, -maxForce, maxForce)
		} else {
			slipAngle := math.Atan2(math.Abs(lateralSpeed), math.Abs(forwardSpeed))
			lateral = -math.Copysign(w.lateralForce(slipAngle, maxForce), lateralSpeed)
		}
	}

	combined := math.Hypot(longitudinal, lateral)
	if maxForce > physics.Epsilon {
		w.GripLevel = physics.Clamp(combined/maxForce, 0, 1)
	}
	if combined > maxForce {
		scale := 0.0
		if combined > physics.Epsilon {
			scale = maxForce / combined
		}
		longitudinal *= scale
		lateral *= scale
	}

	if longitudinal != 0 && mass > physics.Epsilon && w.Radius > physics.Epsilon {
		rotationalMass := w.Spin.Inertia / (w.Radius * w.Radius)
		w.Spin.AddTorque(-longitudinal * w.Radius * rotationalMass / mass)
	}

	return forward.Mul(longitudinal).Add(right.Mul(lateral))
}

// lateralForce maps a slip angle onto the grip curve: linear up to the
// peak, a blend down to sliding grip, then flat.
func (w *Wheel) lateralForce(slipAngle, maxForce float64) float64 {
	peak, transition := w.tire.PeakSlipAngle, w.tire.TransitionSlipAngle
	sliding := maxForce * w.tire.SlideRatio
	switch {
	case slipAngle <= peak:
		if peak <= physics.Epsilon {
			return maxForce
		}
		return maxForce * slipAngle / peak
	case slipAngle <= transition:
		span := transition - peak
		if span <= physics.Epsilon {
			return sliding
		}
		t := (slipAngle - peak) / span
		return maxForce + (sliding-maxForce)*t
	default:
		return sliding
	}
}

// IncrementTime integrates the spin. Brake torque is applied last and is
// limited to what stops the wheel within the tick.
func (w *Wheel) IncrementTime(dt float64) {
	stopped := false
	if dt > 0 && w.brakeTorque != 0 && w.Spin.Inertia > physics.Epsilon {
		free := w.Spin.Velocity + w.Spin.Torque/w.Spin.Inertia*dt
		stopping := math.Abs(free) * w.Spin.Inertia / dt
		braking := math.Abs(w.brakeTorque)
		if braking >= stopping {
			braking, stopped = stopping, true
		}
		if free > 0 {
			w.Spin.AddTorque(-braking)
		} else if free < 0 {
			w.Spin.AddTorque(braking)
		}
	}
	w.brakeTorque = 0
	w.Spin.Integrate(dt)
	if stopped {
		w.Spin.Velocity = 0
	}
}
