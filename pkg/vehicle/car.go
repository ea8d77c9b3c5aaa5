package vehicle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/golangdaddy/roadster-dynamics/pkg/control"
	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
	"github.com/golangdaddy/roadster-dynamics/pkg/physics"
)

// Car is a rear-wheel-drive car: a rigid body on four tires, driven by an
// engine through a clutch and gearbox, with traction control on the driven
// wheels and anti-lock on all four.
//
// A tick is UpdateInputs, UpdateEngine, ApplyBrakes, SumWheelForces,
// IncrementTime and MoveWheels, in that order. Step runs all six.
type Car struct {
	Body physics.RigidBody

	FrontLeft  Wheel
	FrontRight Wheel
	BackLeft   Wheel
	BackRight  Wheel

	Engine  Engine
	Gearbox Gearbox
	TCS     control.TractionControl
	ABS     control.AntiLockBrakes

	spec          car.Car
	steeringAngle float64

	targetThrottle, actualThrottle float64
	targetBrake, actualBrake       float64
	targetSteering, actualSteering float64

	observer Observer
	tick     uint64
	elapsed  float64
}

// NewCar builds a car at rest at the origin, facing +Y, in neutral. A nil
// spec gets the stock hatchback.
func NewCar(spec *car.Car) *Car {
	if spec == nil {
		spec = car.NewCar("Toyota", "Corolla", 2020, 1200)
	}
	c := &Car{spec: *spec.Clone()}
	s := &c.spec

	c.Body = physics.NewRigidBody(s.Weight, s.YawInertia())

	bias := physics.Clamp(s.FrontWeightBias, 0, 1)
	toFront := s.Wheelbase * (1 - bias)
	toRear := s.Wheelbase * bias
	halfTrack := s.TrackWidth / 2
	nominal := s.Weight * physics.Gravity / 4

	c.FrontLeft = NewWheel("front-left", mgl64.Vec2{-halfTrack, toFront}, s.Wheel, s.Tire, nominal)
	c.FrontRight = NewWheel("front-right", mgl64.Vec2{halfTrack, toFront}, s.Wheel, s.Tire, nominal)
	c.BackLeft = NewWheel("back-left", mgl64.Vec2{-halfTrack, -toRear}, s.Wheel, s.Tire, nominal)
	c.BackRight = NewWheel("back-right", mgl64.Vec2{halfTrack, -toRear}, s.Wheel, s.Tire, nominal)

	c.Engine = NewEngine(s.Engine)
	c.Gearbox = NewGearbox(s.Gearbox, s.Engine.Inertia, 2*s.Wheel.Inertia())
	c.TCS = control.NewTractionControl(s.TractionControl)
	c.ABS = control.NewAntiLockBrakes(s.AntiLock)

	c.updateLoadTransfer()
	return c
}

// SetObserver installs the per-tick observer; nil removes it.
func (c *Car) SetObserver(o Observer) {
	c.observer = o
}

// Spec returns the parameters the car was built from.
func (c *Car) Spec() car.Car {
	return c.spec
}

// Wheels returns the four wheels in FL, FR, BL, BR order.
func (c *Car) Wheels() [4]*Wheel {
	return [4]*Wheel{&c.FrontLeft, &c.FrontRight, &c.BackLeft, &c.BackRight}
}

func (c *Car) drivenWheels() [2]*Wheel {
	return [2]*Wheel{&c.BackLeft, &c.BackRight}
}

// SetThrottle sets the target throttle, 0..1.
func (c *Car) SetThrottle(v float64) {
	c.targetThrottle = physics.Clamp(v, 0, 1)
}

// SetBrake sets the target brake pedal, 0..1.
func (c *Car) SetBrake(v float64) {
	c.targetBrake = physics.Clamp(v, 0, 1)
}

// SetSteering sets the target steering, -1 full left .. 1 full right.
func (c *Car) SetSteering(v float64) {
	c.targetSteering = physics.Clamp(v, -1, 1)
}

// ShiftUp selects the next gear up.
func (c *Car) ShiftUp() bool {
	return c.Gearbox.ShiftUp()
}

// ShiftDown selects the next gear down.
func (c *Car) ShiftDown() bool {
	return c.Gearbox.ShiftDown()
}

// HoldClutch presses the clutch pedal.
func (c *Car) HoldClutch() {
	c.Gearbox.HoldClutch()
}

// ReleaseClutch lets the clutch pedal up.
func (c *Car) ReleaseClutch() {
	c.Gearbox.ReleaseClutch()
}

// UpdateInputs moves the actual inputs toward their targets at the
// configured rates and points the front wheels.
func (c *Car) UpdateInputs(dt float64) {
	rates := c.spec.Inputs
	c.actualThrottle = physics.Approach(c.actualThrottle, c.targetThrottle, rates.ThrottleRate*dt)
	c.actualBrake = physics.Approach(c.actualBrake, c.targetBrake, rates.BrakeRate*dt)
	c.actualSteering = physics.Approach(c.actualSteering, c.targetSteering, rates.SteeringRate*dt)

	steer := c.spec.Steering
	c.steeringAngle = c.actualSteering * steer.MaxAngle * speedFactor(c.Body.Speed(), steer.SpeedReference)
	c.setSteeringAngle(c.steeringAngle)
}

// ApplySteering turns the wheel by amount radians on top of the current
// angle, scaled down with speed.
func (c *Car) ApplySteering(amount float64) {
	steer := c.spec.Steering
	c.setSteeringAngle(c.steeringAngle + amount*speedFactor(c.Body.Speed(), steer.SpeedReference))
}

// applyForceFeedback lets the steering self-centre a little each tick.
func (c *Car) applyForceFeedback() {
	c.setSteeringAngle(c.steeringAngle * c.spec.Steering.ReturnDecay)
}

func (c *Car) setSteeringAngle(angle float64) {
	limit := c.spec.Steering.MaxAngle
	c.steeringAngle = physics.Clamp(angle, -limit, limit)
	c.FrontLeft.Angle, c.FrontRight.Angle = ackermann(c.steeringAngle, c.spec.Steering.Rack, c.spec.Wheelbase, c.spec.TrackWidth)
}

// contactVelocity is the velocity of a wheel's contact patch in the body
// frame, including the body's rotation.
func (c *Car) contactVelocity(w *Wheel) mgl64.Vec2 {
	local := physics.ToLocal(c.Body.Velocity, c.Body.Heading())
	return local.Add(physics.PointVelocity(c.Body.Angular.Velocity, w.Offset))
}

// UpdateEngine runs the clutch, engine and gearbox for this tick and puts
// the resulting drive torque on the rear wheels.
func (c *Car) UpdateEngine(dt float64) {
	c.Gearbox.Update(dt)
	c.Engine.CalculateTorque(c.actualThrottle)

	driven := c.drivenWheels()
	omega := (driven[0].AngularVelocity() + driven[1].AngularVelocity()) / 2
	axleTorque := c.Gearbox.ConvertEngineTorqueToWheel(c.Engine.Torque(), c.Engine.RPM(), omega, dt)

	inertia := c.Engine.Inertia() + c.Gearbox.Bite()*c.Gearbox.ReflectedWheelInertia(c.Gearbox.DrivelineInertia())
	c.Engine.AddLoadTorque(c.Gearbox.LoadTorque())
	c.Engine.UpdateRPM(inertia, dt)

	if c.Gearbox.CurrentGear() != Neutral && c.Engine.RPM() < c.Engine.StallRPM() {
		c.Gearbox.SelectNeutral()
	}

	perWheel := axleTorque / float64(len(driven))
	for _, w := range driven {
		torque := perWheel
		if perWheel > 0 && c.Gearbox.CurrentGear() >= 0 {
			torque = c.TCS.Regulate(w, perWheel, c.contactVelocity(w))
		} else {
			w.Regulation().TractionInterference = 0
		}
		if torque > 0 && c.Engine.RPM() >= c.Engine.Redline() {
			torque = 0
		}
		w.AddTorque(torque)
	}
}

// ApplyBrakes turns the brake pedal into brake torque on every wheel through
// the anti-lock regulator.
func (c *Car) ApplyBrakes(dt float64) {
	for _, w := range c.Wheels() {
		local := c.contactVelocity(w)
		speed := local.Dot(w.Forward())
		if speed < 0 {
			speed = -speed
		}
		requested := c.actualBrake * c.spec.Brakes.Power * w.Radius
		w.AddBrakeTorque(c.ABS.Regulate(w, requested, local, speed))
	}
}

// SumWheelForces shares the weight between the wheels and adds every tire
// force, and its moment, to the body.
func (c *Car) SumWheelForces(dt float64) {
	c.updateLoadTransfer()

	heading := c.Body.Heading()
	torque := 0.0
	for _, w := range c.Wheels() {
		force := w.CalculateFriction(c.contactVelocity(w), dt)
		torque += physics.Cross2(w.Offset, force)
		w.lastForce = physics.ToWorld(force, heading)
		c.Body.AddForce(w.lastForce)
	}
	c.Body.AddTorque(torque)
}

// IncrementTime integrates the body.
func (c *Car) IncrementTime(dt float64) {
	c.Body.IncrementTime(dt)
}

// MoveWheels integrates the wheels, lets the steering return and closes the
// tick.
func (c *Car) MoveWheels(dt float64) {
	for _, w := range c.Wheels() {
		w.IncrementTime(dt)
	}
	c.applyForceFeedback()

	c.tick++
	c.elapsed += dt
	if c.observer != nil {
		c.observer.Observe(c.Snapshot())
	}
}

// Step runs one full tick.
func (c *Car) Step(dt float64) {
	c.UpdateInputs(dt)
	c.UpdateEngine(dt)
	c.ApplyBrakes(dt)
	c.SumWheelForces(dt)
	c.IncrementTime(dt)
	c.MoveWheels(dt)
}

// Position in world metres.
func (c *Car) Position() mgl64.Vec2 {
	return c.Body.Position
}

// Velocity in world m/s.
func (c *Car) Velocity() mgl64.Vec2 {
	return c.Body.Velocity
}

// SetVelocity places the car in motion, e.g. at the start of a scenario.
func (c *Car) SetVelocity(v mgl64.Vec2) {
	c.Body.Velocity = v
}

// Heading in radians; zero faces +Y, positive is anticlockwise.
func (c *Car) Heading() float64 {
	return c.Body.Heading()
}

// Speed in m/s.
func (c *Car) Speed() float64 {
	return c.Body.Speed()
}

// SteeringAngle is the current rack angle at the road wheels.
func (c *Car) SteeringAngle() float64 {
	return c.steeringAngle
}

// Throttle is the rate-limited throttle actually applied.
func (c *Car) Throttle() float64 {
	return c.actualThrottle
}

// Brake is the rate-limited brake pedal actually applied.
func (c *Car) Brake() float64 {
	return c.actualBrake
}

// Steering is the rate-limited steering input actually applied.
func (c *Car) Steering() float64 {
	return c.actualSteering
}

// Ticks is the number of completed ticks.
func (c *Car) Ticks() uint64 {
	return c.tick
}

// Elapsed is the simulated time in seconds.
func (c *Car) Elapsed() float64 {
	return c.elapsed
}

// Snapshot copies the state outside readers are allowed to see.
func (c *Car) Snapshot() Snapshot {
	s := Snapshot{
		Tick:          c.tick,
		Time:          c.elapsed,
		Position:      c.Body.Position,
		Velocity:      c.Body.Velocity,
		Acceleration:  c.Body.Acceleration,
		Heading:       c.Body.Heading(),
		YawRate:       c.Body.Angular.Velocity,
		Speed:         c.Body.Speed(),
		SteeringAngle: c.steeringAngle,
		Throttle:      c.actualThrottle,
		Brake:         c.actualBrake,
		Steering:      c.actualSteering,
		Engine: EngineSnapshot{
			RPM:     c.Engine.RPM(),
			Torque:  c.Engine.Torque(),
			Power:   c.Engine.Power(),
			AirFlow: c.Engine.AirFlow(),
		},
		Gearbox: GearboxSnapshot{
			Gear:             c.Gearbox.CurrentGear(),
			Label:            GearLabel(c.Gearbox.CurrentGear()),
			ClutchHeld:       c.Gearbox.IsClutchHeld(),
			ClutchEngagement: c.Gearbox.ClutchEngagement(),
			ClutchSlip:       c.Gearbox.ClutchSlip(),
			ClutchTorque:     c.Gearbox.ClutchTorque(),
		},
	}
	for i, w := range c.Wheels() {
		reg := w.Regulation()
		s.Wheels[i] = WheelSnapshot{
			Name:                 w.Name,
			Offset:               w.Offset,
			Angle:                w.Angle,
			AngularVelocity:      w.AngularVelocity(),
			NormalForce:          w.NormalForce,
			GripLevel:            w.GripLevel,
			TractionInterference: reg.TractionInterference,
			BrakeInterference:    reg.BrakeInterference,
			Force:                w.lastForce,
		}
	}
	return s
}
