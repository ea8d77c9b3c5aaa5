package vehicle

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// Vehicle is the read-only view renderers and recorders get of a car.
type Vehicle interface {
	Position() mgl64.Vec2
	Velocity() mgl64.Vec2
	Heading() float64
	Snapshot() Snapshot
}

// Observer is notified once at the end of every tick. Sampling and
// decimation are up to the observer.
type Observer interface {
	Observe(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

// Observe calls f(s).
func (f ObserverFunc) Observe(s Snapshot) {
	f(s)
}

// WheelSnapshot is the per-wheel part of a Snapshot.
type WheelSnapshot struct {
	Name                 string     `json:"name"`
	Offset               mgl64.Vec2 `json:"offset"`
	Angle                float64    `json:"angle"`
	AngularVelocity      float64    `json:"angularVelocity"`
	NormalForce          float64    `json:"normalForce"`
	GripLevel            float64    `json:"gripLevel"`
	TractionInterference float64    `json:"tractionInterference"`
	BrakeInterference    float64    `json:"brakeInterference"`
	Force                mgl64.Vec2 `json:"force"`
}

// EngineSnapshot is the engine part of a Snapshot.
type EngineSnapshot struct {
	RPM     float64 `json:"rpm"`
	Torque  float64 `json:"torque"`
	Power   float64 `json:"power"`
	AirFlow float64 `json:"airFlow"`
}

// GearboxSnapshot is the driveline part of a Snapshot.
type GearboxSnapshot struct {
	Gear             int     `json:"gear"`
	Label            string  `json:"label"`
	ClutchHeld       bool    `json:"clutchHeld"`
	ClutchEngagement float64 `json:"clutchEngagement"`
	ClutchSlip       float64 `json:"clutchSlip"`
	ClutchTorque     float64 `json:"clutchTorque"`
}

// Snapshot is a copy of everything an outside reader may look at after a
// tick.
type Snapshot struct {
	Tick          uint64           `json:"tick"`
	Time          float64          `json:"time"`
	Position      mgl64.Vec2       `json:"position"`
	Velocity      mgl64.Vec2       `json:"velocity"`
	Acceleration  mgl64.Vec2       `json:"acceleration"`
	Heading       float64          `json:"heading"`
	YawRate       float64          `json:"yawRate"`
	Speed         float64          `json:"speed"`
	SteeringAngle float64          `json:"steeringAngle"`
	Throttle      float64          `json:"throttle"`
	Brake         float64          `json:"brake"`
	Steering      float64          `json:"steering"`
	Wheels        [4]WheelSnapshot `json:"wheels"`
	Engine        EngineSnapshot   `json:"engine"`
	Gearbox       GearboxSnapshot  `json:"gearbox"`
}

// GearLabel renders a gear selection the way a gear indicator shows it.
func GearLabel(gear int) string {
	switch gear {
	case Reverse:
		return "R"
	case Neutral:
		return "N"
	default:
		return strconv.Itoa(gear + 1)
	}
}
