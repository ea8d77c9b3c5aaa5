package vehicle

import (
	"math"

	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
	"github.com/golangdaddy/roadster-dynamics/pkg/physics"
)

// rpmPerRadPerSecond converts angular speed to revolutions per minute.
const rpmPerRadPerSecond = 30 / math.Pi

// Engine is a four-stroke engine modelled from the air it breathes: intake
// air mass sets fuel mass, fuel energy sets power.
type Engine struct {
	spec car.EngineSpec

	rpm        float64
	loadTorque float64
	torque     float64
	power      float64
	airFlow    float64 // kg/s
	efficiency float64 // volumetric, last evaluated
}

// NewEngine returns an engine turning at idle.
func NewEngine(spec car.EngineSpec) Engine {
	return Engine{spec: spec, rpm: spec.IdleRPM}
}

// AirDensity from the ideal gas law at manifold conditions, kg/m^3.
func (e *Engine) AirDensity() float64 {
	denominator := e.spec.GasConstant * e.spec.IntakeTemperature
	if denominator <= physics.Epsilon {
		return 0
	}
	return e.spec.ManifoldPressure / denominator
}

// VolumetricEfficiency rises toward the peak rpm and falls past it.
func (e *Engine) VolumetricEfficiency(rpm float64) float64 {
	if e.spec.PeakEfficiencyRPM <= physics.Epsilon {
		return e.spec.PeakEfficiency
	}
	x := (rpm - e.spec.PeakEfficiencyRPM) / e.spec.PeakEfficiencyRPM
	ve := e.spec.PeakEfficiency * (1 - e.spec.EfficiencyFalloff*x*x)
	return physics.Clamp(ve, e.spec.MinEfficiency, e.spec.PeakEfficiency)
}

// effectiveThrottle applies the idle floor and the rev limiter roll-off.
func (e *Engine) effectiveThrottle(throttle float64) float64 {
	throttle = physics.Clamp(throttle, 0, 1)
	throttle = math.Max(throttle, e.spec.ThrottleFloor)
	if e.rpm > e.spec.LimiterRPM {
		window := e.spec.Redline - e.spec.LimiterRPM
		if window <= physics.Epsilon {
			return 0
		}
		throttle *= physics.Clamp((e.spec.Redline-e.rpm)/window, 0, 1)
	}
	return throttle
}

// CalculateTorque evaluates the engine at the current rpm and throttle and
// remembers the result for UpdateRPM.
func (e *Engine) CalculateTorque(throttle float64) float64 {
	throttle = e.effectiveThrottle(throttle)
	e.efficiency = e.VolumetricEfficiency(e.rpm)

	airPerCycle := e.efficiency * e.AirDensity() * e.spec.Displacement * throttle
	fuelPerCycle := 0.0
	if e.spec.AirFuelRatio > physics.Epsilon {
		fuelPerCycle = airPerCycle / e.spec.AirFuelRatio
	}
	energyPerCycle := fuelPerCycle * e.spec.FuelHeatingValue * e.spec.ThermalEfficiency

	// one cycle every two revolutions
	cyclesPerSecond := e.rpm / 120
	e.airFlow = airPerCycle * cyclesPerSecond
	e.power = energyPerCycle * cyclesPerSecond

	omega := e.rpm / rpmPerRadPerSecond
	if omega > physics.Epsilon {
		e.torque = e.power / omega
	} else {
		e.torque = energyPerCycle / (4 * math.Pi)
	}
	return e.torque
}

// AddLoadTorque accumulates torque drawn by the driveline this tick.
func (e *Engine) AddLoadTorque(torque float64) {
	e.loadTorque += torque
}

// FrictionTorque is the internal drag at the current rpm.
func (e *Engine) FrictionTorque() float64 {
	return e.spec.FrictionCoefficient * e.rpm
}

// UpdateRPM integrates crank speed from the last computed torque, the load
// and internal friction, then clears the load. A non-positive inertia falls
// back to the engine's own.
func (e *Engine) UpdateRPM(effectiveInertia, dt float64) {
	defer func() { e.loadTorque = 0 }()

	inertia := effectiveInertia
	if inertia <= physics.Epsilon {
		inertia = e.spec.Inertia
	}
	if inertia <= physics.Epsilon || dt <= 0 {
		return
	}

	net := e.torque - e.loadTorque - e.FrictionTorque()
	e.rpm += net / inertia * rpmPerRadPerSecond * dt
	e.rpm = physics.Clamp(e.rpm, 0, e.spec.Redline)
}

// RPM is the crank speed in revolutions per minute.
func (e *Engine) RPM() float64 {
	return e.rpm
}

// AngularVelocity is the crank speed in rad/s.
func (e *Engine) AngularVelocity() float64 {
	return e.rpm / rpmPerRadPerSecond
}

// Torque is the last computed output torque, N*m.
func (e *Engine) Torque() float64 {
	return e.torque
}

// Power is the last computed output power, W.
func (e *Engine) Power() float64 {
	return e.power
}

// AirFlow is the last computed intake mass flow, kg/s.
func (e *Engine) AirFlow() float64 {
	return e.airFlow
}

// LoadTorque is the load accumulated since the last UpdateRPM.
func (e *Engine) LoadTorque() float64 {
	return e.loadTorque
}

// Inertia is the crank's own rotational inertia.
func (e *Engine) Inertia() float64 {
	return e.spec.Inertia
}

// Redline is the maximum crank speed.
func (e *Engine) Redline() float64 {
	return e.spec.Redline
}

// StallRPM is the speed below which the engine cannot stay in gear.
func (e *Engine) StallRPM() float64 {
	return e.spec.StallRPM
}
