package car

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarIsValid(t *testing.T) {
	c := NewCar("Toyota", "Corolla", 2020, 1200)
	require.NoError(t, c.Validate())
	assert.Equal(t, "2020 Toyota Corolla", c.Name())
	assert.InDelta(t, 0.5*20*0.33*0.33, c.Wheel.Inertia(), 1e-12)
	assert.Greater(t, c.YawInertia(), 0.0)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Car)
		want   string
	}{
		{"weight", func(c *Car) { c.Weight = 0 }, "weight must be positive"},
		{"radius", func(c *Car) { c.Wheel.Radius = -1 }, "wheel.radius must be positive"},
		{"bias", func(c *Car) { c.FrontWeightBias = 1.2 }, "frontWeightBias"},
		{"no gears", func(c *Car) { c.Gearbox.Ratios = nil }, "at least one forward ratio"},
		{"bad ratio", func(c *Car) { c.Gearbox.Ratios[2] = 0 }, "gear 3 ratio"},
		{"limiter", func(c *Car) { c.Engine.LimiterRPM = 9000 }, "limiter"},
		{"bite", func(c *Car) { c.Gearbox.Clutch.BiteStart = 0.95 }, "bite start"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCar("Test", "Rig", 2024, 1000)
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClone(t *testing.T) {
	c := NewCar("Test", "Rig", 2024, 1000)
	clone := c.Clone()
	clone.Gearbox.Ratios[0] = 9
	clone.Engine.Redline = 1

	assert.Equal(t, 3.5, c.Gearbox.Ratios[0])
	assert.Equal(t, 8000.0, c.Engine.Redline)
}
