package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// AngularState is the rotational half of a rigid body: heading, spin and
// the torque accumulated since the last integration.
type AngularState struct {
	Position     float64 // radians, kept in (-pi, pi]
	Velocity     float64 // rad/s
	Acceleration float64 // rad/s^2
	Torque       float64 // N*m, cleared by Integrate
	Inertia      float64 // kg*m^2
}

// AddTorque accumulates torque for the next integration step.
func (a *AngularState) AddTorque(torque float64) {
	a.Torque += torque
}

// Integrate advances the rotation by dt using semi-implicit Euler and clears
// the torque accumulator. A zero inertia produces no angular acceleration.
func (a *AngularState) Integrate(dt float64) {
	if dt > 0 {
		a.Acceleration = 0
		if a.Inertia > Epsilon {
			a.Acceleration = a.Torque / a.Inertia
		}
		a.Position = NormalizeAngle(a.Position + a.Velocity*dt + 0.5*a.Acceleration*dt*dt)
		a.Velocity += a.Acceleration * dt
	}
	a.Torque = 0
}

// RigidBody is a planar body with linear and angular state. Positions are in
// metres; conversion to screen units happens in the renderer.
type RigidBody struct {
	Position     mgl64.Vec2
	Velocity     mgl64.Vec2
	Acceleration mgl64.Vec2
	Force        mgl64.Vec2 // cleared by IncrementTime
	Mass         float64    // kg
	Angular      AngularState
}

// NewRigidBody returns a body at rest at the origin.
func NewRigidBody(mass, inertia float64) RigidBody {
	return RigidBody{
		Mass:    mass,
		Angular: AngularState{Inertia: inertia},
	}
}

// AddForce accumulates a world-frame force.
func (b *RigidBody) AddForce(force mgl64.Vec2) {
	b.Force = b.Force.Add(force)
}

// AddTorque accumulates torque about the centre of mass.
func (b *RigidBody) AddTorque(torque float64) {
	b.Angular.AddTorque(torque)
}

// IncrementTime integrates one tick and clears both accumulators.
func (b *RigidBody) IncrementTime(dt float64) {
	if dt > 0 {
		b.Acceleration = mgl64.Vec2{}
		if b.Mass > Epsilon {
			b.Acceleration = b.Force.Mul(1 / b.Mass)
		}
		b.Position = b.Position.Add(b.Velocity.Mul(dt)).Add(b.Acceleration.Mul(0.5 * dt * dt))
		b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))
	}
	b.Force = mgl64.Vec2{}
	b.Angular.Integrate(dt)
}

// Heading is the angular position in radians.
func (b *RigidBody) Heading() float64 {
	return b.Angular.Position
}

// Speed is the magnitude of the linear velocity.
func (b *RigidBody) Speed() float64 {
	return b.Velocity.Len()
}
