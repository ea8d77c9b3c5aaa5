package models

import (
	"strings"

	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
)

// CarInventory manages the collection of available cars
var CarInventory = &carInventory{
	presets: []preset{
		{key: "hatchback", car: car.NewCar("Toyota", "Corolla", 2020, 1200)},
		{key: "coupe", car: coupe()},
		{key: "muscle", car: muscle()},
		{key: "saloon", car: saloon()},
	},
}

// DefaultPreset is used when the configuration names no car.
const DefaultPreset = "hatchback"

type preset struct {
	key string
	car *car.Car
}

type carInventory struct {
	presets []preset
}

// GetAllCars returns all available cars
func (ci *carInventory) GetAllCars() []*car.Car {
	cars := make([]*car.Car, 0, len(ci.presets))
	for _, p := range ci.presets {
		cars = append(cars, p.car.Clone())
	}
	return cars
}

// Keys lists the preset names accepted by Find.
func (ci *carInventory) Keys() []string {
	keys := make([]string, 0, len(ci.presets))
	for _, p := range ci.presets {
		keys = append(keys, p.key)
	}
	return keys
}

// Find returns a copy of the named preset.
func (ci *carInventory) Find(key string) (*car.Car, bool) {
	for _, p := range ci.presets {
		if strings.EqualFold(p.key, key) {
			return p.car.Clone(), true
		}
	}
	return nil, false
}

func coupe() *car.Car {
	c := car.NewCar("Honda", "Civic", 2021, 1150)
	c.Length = 4.5
	c.Wheelbase = 2.7
	c.CGHeight = 0.45
	c.Wheel.FrictionCoefficient = 1.1
	c.Engine.Displacement = 0.0045
	c.Engine.PeakEfficiencyRPM = 5500
	return c
}

func muscle() *car.Car {
	c := car.NewCar("Ford", "Mustang", 2019, 1600)
	c.Length = 4.8
	c.Width = 1.9
	c.Wheelbase = 2.72
	c.TrackWidth = 1.6
	c.FrontWeightBias = 0.55
	c.Brakes.Power = 5000
	c.Engine.Displacement = 0.0075
	c.Engine.Inertia = 1.0
	c.Engine.PeakEfficiencyRPM = 4000
	c.Engine.LimiterRPM = 6600
	c.Engine.Redline = 7000
	c.Gearbox.Ratios = []float64{3.0, 2.0, 1.4, 1.0, 0.8, 0.63}
	c.Gearbox.FinalDrive = 3.7
	c.Gearbox.Clutch.MaxTorque = 900
	return c
}

func saloon() *car.Car {
	c := car.NewCar("BMW", "3 Series", 2022, 1500)
	c.Length = 4.7
	c.Wheelbase = 2.85
	c.FrontWeightBias = 0.52
	c.CGHeight = 0.52
	c.Engine.Displacement = 0.006
	c.Gearbox.Ratios = []float64{4.1, 2.5, 1.6, 1.2, 1.0, 0.8}
	c.Gearbox.FinalDrive = 3.2
	return c
}
