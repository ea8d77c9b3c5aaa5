package car

import (
	"errors"
	"fmt"
	"math"
)

// Brakes represents the braking system of a car
type Brakes struct {
	Power float64 `json:"power" mapstructure:"power"` // N per unit pedal, times wheel radius gives torque
}

// WheelSpec describes a single road wheel
type WheelSpec struct {
	Radius              float64 `json:"radius" mapstructure:"radius"` // in m
	Mass                float64 `json:"mass" mapstructure:"mass"`     // in kg
	FrictionCoefficient float64 `json:"frictionCoefficient" mapstructure:"frictionCoefficient"`
}

// Inertia treats the wheel as a solid disc.
func (w WheelSpec) Inertia() float64 {
	return 0.5 * w.Mass * w.Radius * w.Radius
}

// TireSpec holds the constants of the tire force model
type TireSpec struct {
	PeakSlipAngle        float64 `json:"peakSlipAngle" mapstructure:"peakSlipAngle"`             // rad, full grip
	TransitionSlipAngle  float64 `json:"transitionSlipAngle" mapstructure:"transitionSlipAngle"` // rad, sliding from here on
	SlideRatio           float64 `json:"slideRatio" mapstructure:"slideRatio"`                   // sliding grip / peak grip
	LowSpeedThreshold    float64 `json:"lowSpeedThreshold" mapstructure:"lowSpeedThreshold"`     // m/s
	LongitudinalResponse float64 `json:"longitudinalResponse" mapstructure:"longitudinalResponse"`
	LateralResponse      float64 `json:"lateralResponse" mapstructure:"lateralResponse"`
	LoadSensitivity      float64 `json:"loadSensitivity" mapstructure:"loadSensitivity"` // exponent, 0 disables
}

// EngineSpec holds the air-flow engine model constants
type EngineSpec struct {
	Displacement        float64 `json:"displacement" mapstructure:"displacement"`               // m^3 per cycle
	ManifoldPressure    float64 `json:"manifoldPressure" mapstructure:"manifoldPressure"`       // Pa
	IntakeTemperature   float64 `json:"intakeTemperature" mapstructure:"intakeTemperature"`     // K
	GasConstant         float64 `json:"gasConstant" mapstructure:"gasConstant"`                 // J/(kg*K)
	AirFuelRatio        float64 `json:"airFuelRatio" mapstructure:"airFuelRatio"`
	FuelHeatingValue    float64 `json:"fuelHeatingValue" mapstructure:"fuelHeatingValue"`       // J/kg
	ThermalEfficiency   float64 `json:"thermalEfficiency" mapstructure:"thermalEfficiency"`
	PeakEfficiency      float64 `json:"peakEfficiency" mapstructure:"peakEfficiency"`           // volumetric
	MinEfficiency       float64 `json:"minEfficiency" mapstructure:"minEfficiency"`             // volumetric
	EfficiencyFalloff   float64 `json:"efficiencyFalloff" mapstructure:"efficiencyFalloff"`
	PeakEfficiencyRPM   float64 `json:"peakEfficiencyRPM" mapstructure:"peakEfficiencyRPM"`
	Inertia             float64 `json:"inertia" mapstructure:"inertia"`                         // kg*m^2
	FrictionCoefficient float64 `json:"frictionCoefficient" mapstructure:"frictionCoefficient"` // N*m per rpm
	IdleRPM             float64 `json:"idleRPM" mapstructure:"idleRPM"`
	StallRPM            float64 `json:"stallRPM" mapstructure:"stallRPM"`
	LimiterRPM          float64 `json:"limiterRPM" mapstructure:"limiterRPM"`
	Redline             float64 `json:"redline" mapstructure:"redline"`
	ThrottleFloor       float64 `json:"throttleFloor" mapstructure:"throttleFloor"`
}

// ClutchSpec holds the clutch coupling constants
type ClutchSpec struct {
	MaxTorque      float64 `json:"maxTorque" mapstructure:"maxTorque"` // N*m
	SlipGain       float64 `json:"slipGain" mapstructure:"slipGain"`   // N*m per rad/s
	EngageRate     float64 `json:"engageRate" mapstructure:"engageRate"`
	DisengageRate  float64 `json:"disengageRate" mapstructure:"disengageRate"`
	BiteStart      float64 `json:"biteStart" mapstructure:"biteStart"`
	BiteFull       float64 `json:"biteFull" mapstructure:"biteFull"`
	LockEngagement float64 `json:"lockEngagement" mapstructure:"lockEngagement"`
	LockStiffness  float64 `json:"lockStiffness" mapstructure:"lockStiffness"` // N*m per rad/s
	LockDamping    float64 `json:"lockDamping" mapstructure:"lockDamping"`     // N*m per rad/s^2
	Smoothing      float64 `json:"smoothing" mapstructure:"smoothing"`         // 0..1 per tick
}

// GearboxSpec describes the gear set
type GearboxSpec struct {
	Ratios     []float64  `json:"ratios" mapstructure:"ratios"`
	FinalDrive float64    `json:"finalDrive" mapstructure:"finalDrive"`
	Clutch     ClutchSpec `json:"clutch" mapstructure:"clutch"`
}

// RegulatorSpec holds the gains of a slip regulator
type RegulatorSpec struct {
	SlipSetpoint float64 `json:"slipSetpoint" mapstructure:"slipSetpoint"`
	Kp           float64 `json:"kp" mapstructure:"kp"`
	Kd           float64 `json:"kd" mapstructure:"kd"`
}

// InputSpec limits how fast the driver inputs move, per second
type InputSpec struct {
	ThrottleRate float64 `json:"throttleRate" mapstructure:"throttleRate"`
	BrakeRate    float64 `json:"brakeRate" mapstructure:"brakeRate"`
	SteeringRate float64 `json:"steeringRate" mapstructure:"steeringRate"`
}

// SteeringSpec describes the steering rack
type SteeringSpec struct {
	MaxAngle       float64 `json:"maxAngle" mapstructure:"maxAngle"` // rad at the road wheels
	Rack           float64 `json:"rack" mapstructure:"rack"`
	ReturnDecay    float64 `json:"returnDecay" mapstructure:"returnDecay"`       // per tick
	SpeedReference float64 `json:"speedReference" mapstructure:"speedReference"` // m/s where steering is halved
}

// Car represents a car in the game
type Car struct {
	Make   string  `json:"make" mapstructure:"make"`
	Model  string  `json:"model" mapstructure:"model"`
	Year   int     `json:"year" mapstructure:"year"`
	Weight float64 `json:"weight" mapstructure:"weight"` // in kg

	Length          float64 `json:"length" mapstructure:"length"`                   // in m
	Width           float64 `json:"width" mapstructure:"width"`                     // in m
	Wheelbase       float64 `json:"wheelbase" mapstructure:"wheelbase"`             // in m
	TrackWidth      float64 `json:"trackWidth" mapstructure:"trackWidth"`           // in m
	CGHeight        float64 `json:"cgHeight" mapstructure:"cgHeight"`               // in m
	FrontWeightBias float64 `json:"frontWeightBias" mapstructure:"frontWeightBias"` // share of weight on the front axle
	MinNormalForce  float64 `json:"minNormalForce" mapstructure:"minNormalForce"`   // in N
	TopSpeed        float64 `json:"topSpeed" mapstructure:"topSpeed"`               // in m/s

	Brakes          Brakes        `json:"brakes" mapstructure:"brakes"`
	Steering        SteeringSpec  `json:"steering" mapstructure:"steering"`
	Inputs          InputSpec     `json:"inputs" mapstructure:"inputs"`
	Wheel           WheelSpec     `json:"wheel" mapstructure:"wheel"`
	Tire            TireSpec      `json:"tire" mapstructure:"tire"`
	Engine          EngineSpec    `json:"engine" mapstructure:"engine"`
	Gearbox         GearboxSpec   `json:"gearbox" mapstructure:"gearbox"`
	TractionControl RegulatorSpec `json:"tractionControl" mapstructure:"tractionControl"`
	AntiLock        RegulatorSpec `json:"antiLock" mapstructure:"antiLock"`
}

// NewCar creates a new car with default values
func NewCar(make, model string, year int, weight float64) *Car {
	return &Car{
		Make:            make,
		Model:           model,
		Year:            year,
		Weight:          weight,
		Length:          4.3,
		Width:           1.8,
		Wheelbase:       2.6,
		TrackWidth:      1.55,
		CGHeight:        0.5,
		FrontWeightBias: 0.6,
		MinNormalForce:  60,
		TopSpeed:        50,
		Brakes:          Brakes{Power: 4000},
		Steering: SteeringSpec{
			MaxAngle:       0.6,
			Rack:           1.0,
			ReturnDecay:    0.97,
			SpeedReference: 50,
		},
		Inputs: InputSpec{
			ThrottleRate: 6,
			BrakeRate:    9,
			SteeringRate: 7,
		},
		Wheel: WheelSpec{
			Radius:              0.33,
			Mass:                20,
			FrictionCoefficient: 1.0,
		},
		Tire: TireSpec{
			PeakSlipAngle:        8 * math.Pi / 180,
			TransitionSlipAngle:  15 * math.Pi / 180,
			SlideRatio:           0.75,
			LowSpeedThreshold:    0.5,
			LongitudinalResponse: 0.6,
			LateralResponse:      0.45,
			LoadSensitivity:      0.9,
		},
		Engine: EngineSpec{
			Displacement:        0.005,
			ManifoldPressure:    101325,
			IntakeTemperature:   298,
			GasConstant:         287,
			AirFuelRatio:        14.7,
			FuelHeatingValue:    44e6,
			ThermalEfficiency:   0.28,
			PeakEfficiency:      0.9,
			MinEfficiency:       0.4,
			EfficiencyFalloff:   0.35,
			PeakEfficiencyRPM:   4500,
			Inertia:             0.8,
			FrictionCoefficient: 0.015,
			IdleRPM:             1000,
			StallRPM:            800,
			LimiterRPM:          7600,
			Redline:             8000,
			ThrottleFloor:       0.05,
		},
		Gearbox: GearboxSpec{
			Ratios:     []float64{3.5, 2.2, 1.5, 1.0, 0.75, 0.6},
			FinalDrive: 4.2,
			Clutch: ClutchSpec{
				MaxTorque:      700,
				SlipGain:       150,
				EngageRate:     6,
				DisengageRate:  12,
				BiteStart:      0.6,
				BiteFull:       0.9,
				LockEngagement: 0.95,
				LockStiffness:  400,
				LockDamping:    2,
				Smoothing:      0.5,
			},
		},
		TractionControl: RegulatorSpec{SlipSetpoint: 0.1, Kp: 800, Kd: 200},
		AntiLock:        RegulatorSpec{SlipSetpoint: -0.2, Kp: 1500, Kd: 300},
	}
}

// Name returns the display name of the car
func (c *Car) Name() string {
	return fmt.Sprintf("%d %s %s", c.Year, c.Make, c.Model)
}

// YawInertia approximates the body as a uniform rectangle.
func (c *Car) YawInertia() float64 {
	return c.Weight / 12 * (c.Width*c.Width + c.Length*c.Length)
}

// Clone returns a deep copy, so overrides never touch the inventory.
func (c *Car) Clone() *Car {
	clone := *c
	clone.Gearbox.Ratios = append([]float64(nil), c.Gearbox.Ratios...)
	return &clone
}

// Validate reports parameter sets the simulation cannot run with.
func (c *Car) Validate() error {
	var errs []error
	positive := map[string]float64{
		"weight":                   c.Weight,
		"wheelbase":                c.Wheelbase,
		"trackWidth":               c.TrackWidth,
		"wheel.radius":             c.Wheel.Radius,
		"wheel.mass":               c.Wheel.Mass,
		"engine.inertia":           c.Engine.Inertia,
		"engine.redline":           c.Engine.Redline,
		"gearbox.finalDrive":       c.Gearbox.FinalDrive,
		"gearbox.clutch.maxTorque": c.Gearbox.Clutch.MaxTorque,
	}
	for name, v := range positive {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	if c.FrontWeightBias < 0 || c.FrontWeightBias > 1 {
		errs = append(errs, fmt.Errorf("frontWeightBias must be within [0,1], got %v", c.FrontWeightBias))
	}
	if len(c.Gearbox.Ratios) == 0 {
		errs = append(errs, errors.New("gearbox needs at least one forward ratio"))
	}
	for i, r := range c.Gearbox.Ratios {
		if !(r > 0) {
			errs = append(errs, fmt.Errorf("gear %d ratio must be positive, got %v", i+1, r))
		}
	}
	if c.Engine.LimiterRPM >= c.Engine.Redline {
		errs = append(errs, fmt.Errorf("engine limiter %v must sit below redline %v", c.Engine.LimiterRPM, c.Engine.Redline))
	}
	if c.Gearbox.Clutch.BiteStart >= c.Gearbox.Clutch.BiteFull {
		errs = append(errs, errors.New("clutch bite start must be below bite full"))
	}
	return errors.Join(errs...)
}
