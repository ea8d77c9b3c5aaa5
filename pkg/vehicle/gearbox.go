package vehicle

import (
	"math"

	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
	"github.com/golangdaddy/roadster-dynamics/pkg/physics"
)

// Gear selections outside the forward range.
const (
	Reverse = -2
	Neutral = -1
)

// Gearbox couples the engine to the driven wheels through a friction clutch
// and a set of fixed ratios.
type Gearbox struct {
	spec car.GearboxSpec

	selected      int
	clutchPressed bool
	engagement    float64 // 0 released plates .. 1 fully clamped

	clutchTorque    float64
	clutchSlip      float64
	previousSlip    float64
	loadTorque      float64
	netEngineTorque float64

	engineInertia    float64
	drivelineInertia float64 // driven wheels plus shafts, wheel side
}

// NewGearbox returns a gearbox in neutral with the clutch released.
// engineInertia and drivelineInertia are used to keep the clutch from
// overshooting lock within a tick.
func NewGearbox(spec car.GearboxSpec, engineInertia, drivelineInertia float64) Gearbox {
	return Gearbox{
		spec:             spec,
		selected:         Neutral,
		engagement:       1,
		engineInertia:    engineInertia,
		drivelineInertia: drivelineInertia,
	}
}

// ShiftUp moves one gear up: reverse to neutral, neutral to first, and so on.
func (g *Gearbox) ShiftUp() bool {
	if g.selected >= len(g.spec.Ratios)-1 {
		return false
	}
	g.selected++
	return true
}

// ShiftDown moves one gear down, through neutral into reverse.
func (g *Gearbox) ShiftDown() bool {
	if g.selected <= Reverse {
		return false
	}
	g.selected--
	return true
}

// SelectNeutral steps through the gate into neutral with the clutch held,
// then restores the pedal.
func (g *Gearbox) SelectNeutral() {
	held := g.clutchPressed
	g.clutchPressed = true
	for g.selected > Neutral && g.ShiftDown() {
	}
	for g.selected < Neutral && g.ShiftUp() {
	}
	g.clutchPressed = held
}

// CurrentGear is the selection: Reverse, Neutral or a forward index from 0.
func (g *Gearbox) CurrentGear() int {
	return g.selected
}

// GearCount is the number of forward gears.
func (g *Gearbox) GearCount() int {
	return len(g.spec.Ratios)
}

// reduction is the signed engine-to-wheel speed reduction of the selection.
func (g *Gearbox) reduction() float64 {
	switch {
	case g.selected == Neutral:
		return 0
	case g.selected == Reverse:
		// reverse shares first gear's ratio
		return -g.spec.Ratios[0] * g.spec.FinalDrive
	default:
		return g.spec.Ratios[g.selected] * g.spec.FinalDrive
	}
}

// GearRatio is wheel speed over engine speed: negative in reverse, zero in
// neutral.
func (g *Gearbox) GearRatio() float64 {
	r := g.reduction()
	if math.Abs(r) <= physics.Epsilon {
		return 0
	}
	return 1 / r
}

// HoldClutch presses the clutch pedal.
func (g *Gearbox) HoldClutch() {
	g.clutchPressed = true
}

// ReleaseClutch lets the pedal up.
func (g *Gearbox) ReleaseClutch() {
	g.clutchPressed = false
}

// IsClutchHeld reports the pedal state.
func (g *Gearbox) IsClutchHeld() bool {
	return g.clutchPressed
}

// Update moves the plates toward the pedal position with a first-order lag.
func (g *Gearbox) Update(dt float64) {
	target := 1.0
	rate := g.spec.Clutch.EngageRate
	if g.clutchPressed {
		target = 0
		rate = g.spec.Clutch.DisengageRate
	}
	step := physics.Clamp(rate*dt, 0, 1)
	g.engagement = physics.Clamp(g.engagement+(target-g.engagement)*step, 0, 1)
}

// ClutchEngagement is the lagged plate position, 0..1.
func (g *Gearbox) ClutchEngagement() float64 {
	return g.engagement
}

// Bite maps engagement onto transmissible torque share: nothing below the
// bite point, everything once the plates are clamped.
func (g *Gearbox) Bite() float64 {
	start, full := g.spec.Clutch.BiteStart, g.spec.Clutch.BiteFull
	switch {
	case g.engagement <= start:
		return 0
	case g.engagement >= full:
		return 1
	default:
		return (g.engagement - start) / (full - start)
	}
}

// lockWeight blends the slipping law into the spring-damper as the plates
// close past the lock engagement.
func (g *Gearbox) lockWeight() float64 {
	lock := g.spec.Clutch.LockEngagement
	if lock >= 1 {
		return 0
	}
	return physics.Clamp((g.engagement-lock)/(1-lock), 0, 1)
}

// ConvertEngineTorqueToWheel runs the clutch for one tick and returns the
// torque delivered to the driven axle. The clutch torque is also kept as the
// load the engine must carry this tick.
func (g *Gearbox) ConvertEngineTorqueToWheel(engineTorque, engineRPM, wheelOmega, dt float64) float64 {
	ratio := g.GearRatio()
	bite := g.Bite()
	if g.selected == Neutral || ratio == 0 || bite <= 0 || dt <= 0 {
		g.clutchTorque = 0
		g.clutchSlip = 0
		g.previousSlip = 0
		g.loadTorque = 0
		g.netEngineTorque = engineTorque
		return 0
	}

	clutch := g.spec.Clutch
	engineOmega := engineRPM / rpmPerRadPerSecond
	slip := engineOmega - wheelOmega/ratio
	capacity := bite * clutch.MaxTorque

	target := physics.Clamp(slip*clutch.SlipGain, -capacity, capacity)
	if w := g.lockWeight(); w > 0 {
		slipRate := (slip - g.previousSlip) / dt
		spring := physics.Clamp(slip*clutch.LockStiffness+slipRate*clutch.LockDamping, -capacity, capacity)
		target += (spring - target) * w
	}

	torque := g.clutchTorque + (target-g.clutchTorque)*physics.Clamp(clutch.Smoothing, 0, 1)
	torque = boundToward(torque, g.lockTorque(slip, engineTorque, ratio, dt))
	torque = physics.Clamp(torque, -capacity, capacity)

	g.clutchTorque = torque
	g.clutchSlip = slip
	g.previousSlip = slip
	g.loadTorque = torque
	g.netEngineTorque = engineTorque - torque
	return torque / ratio
}

// lockTorque is the clutch torque that brings both shafts to the same speed
// by the end of the tick.
func (g *Gearbox) lockTorque(slip, engineTorque, ratio, dt float64) float64 {
	reflected := g.ReflectedWheelInertia(g.drivelineInertia)
	if g.engineInertia <= physics.Epsilon || reflected <= physics.Epsilon {
		return 0
	}
	compliance := 1/g.engineInertia + 1/reflected
	return (slip/dt + engineTorque/g.engineInertia) / compliance
}

// boundToward keeps v between zero and limit.
func boundToward(v, limit float64) float64 {
	if limit >= 0 {
		return physics.Clamp(v, 0, limit)
	}
	return physics.Clamp(v, limit, 0)
}

// ReflectedWheelInertia is a wheel-side inertia as seen from the crank.
func (g *Gearbox) ReflectedWheelInertia(inertia float64) float64 {
	r := g.GearRatio()
	return inertia * r * r
}

// DrivelineInertia is the wheel-side inertia the clutch drives.
func (g *Gearbox) DrivelineInertia() float64 {
	return g.drivelineInertia
}

// ClutchTorque is the torque the clutch passed last tick, engine side.
func (g *Gearbox) ClutchTorque() float64 {
	return g.clutchTorque
}

// ClutchSlip is the last speed difference across the clutch, rad/s.
func (g *Gearbox) ClutchSlip() float64 {
	return g.clutchSlip
}

// LoadTorque is the torque the engine must carry for the last conversion.
func (g *Gearbox) LoadTorque() float64 {
	return g.loadTorque
}

// NetEngineTorque is the engine torque left after feeding the clutch.
func (g *Gearbox) NetEngineTorque() float64 {
	return g.netEngineTorque
}
