package vehicle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGearbox(drivelineInertia float64) Gearbox {
	spec := testSpec()
	return NewGearbox(spec.Gearbox, spec.Engine.Inertia, drivelineInertia)
}

func TestGearboxStartsInNeutral(t *testing.T) {
	g := testGearbox(2)
	assert.Equal(t, Neutral, g.CurrentGear())
	assert.Zero(t, g.GearRatio())
	assert.Equal(t, 1.0, g.ClutchEngagement())
	assert.False(t, g.IsClutchHeld())
	assert.Equal(t, 6, g.GearCount())
}

func TestGearboxShifting(t *testing.T) {
	g := testGearbox(2)

	require.True(t, g.ShiftUp())
	assert.Equal(t, 0, g.CurrentGear())
	assert.InDelta(t, 1/(3.5*4.2), g.GearRatio(), 1e-12)

	for g.ShiftUp() {
	}
	assert.Equal(t, 5, g.CurrentGear())
	assert.False(t, g.ShiftUp())
	assert.Equal(t, 5, g.CurrentGear())
	assert.InDelta(t, 1/(0.6*4.2), g.GearRatio(), 1e-12)

	for g.ShiftDown() {
	}
	assert.Equal(t, Reverse, g.CurrentGear())
	assert.False(t, g.ShiftDown())
	assert.Equal(t, Reverse, g.CurrentGear())
	assert.InDelta(t, -1/(3.5*4.2), g.GearRatio(), 1e-12)
}

func TestGearLabel(t *testing.T) {
	assert.Equal(t, "R", GearLabel(Reverse))
	assert.Equal(t, "N", GearLabel(Neutral))
	assert.Equal(t, "1", GearLabel(0))
	assert.Equal(t, "6", GearLabel(5))
}

func TestSelectNeutral(t *testing.T) {
	g := testGearbox(2)
	g.ShiftUp()
	g.ShiftUp()
	g.ShiftUp()
	g.SelectNeutral()
	assert.Equal(t, Neutral, g.CurrentGear())
	assert.False(t, g.IsClutchHeld())

	g.ShiftDown()
	g.HoldClutch()
	g.SelectNeutral()
	assert.Equal(t, Neutral, g.CurrentGear())
	assert.True(t, g.IsClutchHeld())
}

func TestBite(t *testing.T) {
	g := testGearbox(2)
	tests := []struct {
		engagement float64
		want       float64
	}{
		{0, 0},
		{0.6, 0},
		{0.75, 0.5},
		{0.9, 1},
		{1, 1},
	}
	for _, tt := range tests {
		g.engagement = tt.engagement
		assert.InDelta(t, tt.want, g.Bite(), 1e-12, "engagement %v", tt.engagement)
	}
}

func TestClutchEngagementLag(t *testing.T) {
	g := testGearbox(2)
	g.HoldClutch()

	previous := g.ClutchEngagement()
	for i := 0; i < 120; i++ {
		g.Update(tick)
		require.LessOrEqual(t, g.ClutchEngagement(), previous)
		require.GreaterOrEqual(t, g.ClutchEngagement(), 0.0)
		previous = g.ClutchEngagement()
	}
	assert.Less(t, g.ClutchEngagement(), 0.01)

	g.ReleaseClutch()
	g.Update(tick)
	// engaging is slower than letting go
	assert.InDelta(t, previous+(1-previous)*0.1, g.ClutchEngagement(), 1e-12)
	for i := 0; i < 240; i++ {
		g.Update(tick)
		require.LessOrEqual(t, g.ClutchEngagement(), 1.0)
	}
	assert.Greater(t, g.ClutchEngagement(), 0.99)
}

func TestConvertInNeutral(t *testing.T) {
	g := testGearbox(2)
	assert.Zero(t, g.ConvertEngineTorqueToWheel(200, 3000, 0, tick))
	assert.Zero(t, g.LoadTorque())
	assert.Zero(t, g.ClutchTorque())
	assert.Equal(t, 200.0, g.NetEngineTorque())
}

func TestConvertWithClutchDown(t *testing.T) {
	g := testGearbox(2)
	g.ShiftUp()
	g.engagement = 0.5
	assert.Zero(t, g.ConvertEngineTorqueToWheel(200, 3000, 0, tick))
	assert.Zero(t, g.LoadTorque())
}

func TestConvertLimitedByCapacity(t *testing.T) {
	g := testGearbox(1000)
	g.ShiftUp()
	g.engagement = 0.75

	var wheel float64
	for i := 0; i < 30; i++ {
		wheel = g.ConvertEngineTorqueToWheel(200, 3000, 0, tick)
		require.LessOrEqual(t, g.ClutchTorque(), 350.0+1e-9)
	}
	assert.InDelta(t, 350, g.ClutchTorque(), 1e-3)
	assert.InDelta(t, 350*3.5*4.2, wheel, 1)
	assert.Equal(t, g.ClutchTorque(), g.LoadTorque())
	assert.InDelta(t, 200-g.ClutchTorque(), g.NetEngineTorque(), 1e-9)
}

func TestConvertNeverOvershootsLock(t *testing.T) {
	g := testGearbox(2 * testSpec().Wheel.Inertia())
	g.ShiftUp()

	ratio := g.GearRatio()
	engineInertia := testSpec().Engine.Inertia
	engineOmega, wheelOmega := 3000/rpmPerRadPerSecond, 0.0
	engineTorque := 150.0

	for i := 0; i < 60; i++ {
		slip := engineOmega - wheelOmega/ratio
		wheelTorque := g.ConvertEngineTorqueToWheel(engineTorque, engineOmega*rpmPerRadPerSecond, wheelOmega, tick)
		clutch := g.ClutchTorque()
		require.GreaterOrEqual(t, clutch, 0.0)

		engineOmega += (engineTorque - clutch) / engineInertia * tick
		wheelOmega += wheelTorque / g.DrivelineInertia() * tick
		after := engineOmega - wheelOmega/ratio
		if slip >= 0 {
			require.GreaterOrEqual(t, after, -1e-6, "tick %d", i)
		}
	}
	assert.Greater(t, wheelOmega, 0.0)
}

func TestConvertContinuousAtLock(t *testing.T) {
	convert := func(engagement float64) float64 {
		g := testGearbox(1000)
		g.ShiftUp()
		g.engagement = engagement
		g.ConvertEngineTorqueToWheel(1000, rpmPerRadPerSecond, 0, tick)
		return g.ClutchTorque()
	}
	below, above := convert(0.9499), convert(0.9501)
	assert.InDelta(t, below, above, 1)
	assert.Greater(t, below, 0.0)
}

func TestConvertInReverse(t *testing.T) {
	g := testGearbox(1000)
	g.ShiftDown()
	require.Equal(t, Reverse, g.CurrentGear())

	wheel := g.ConvertEngineTorqueToWheel(200, 3000, 0, tick)
	assert.Less(t, wheel, 0.0)
	assert.Greater(t, g.ClutchTorque(), 0.0)
}

func TestReflectedWheelInertia(t *testing.T) {
	g := testGearbox(2)
	assert.Zero(t, g.ReflectedWheelInertia(2))

	g.ShiftUp()
	r := 1 / (3.5 * 4.2)
	assert.InDelta(t, 2*r*r, g.ReflectedWheelInertia(2), 1e-12)
	assert.True(t, math.Abs(g.ReflectedWheelInertia(2)) < 2)
}
