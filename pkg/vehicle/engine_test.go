package vehicle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testEngine() Engine {
	return NewEngine(testSpec().Engine)
}

func TestEngineStartsAtIdle(t *testing.T) {
	e := testEngine()
	assert.Equal(t, 1000.0, e.RPM())
	assert.InDelta(t, 1000*math.Pi/30, e.AngularVelocity(), 1e-9)
}

func TestAirDensity(t *testing.T) {
	e := testEngine()
	assert.InDelta(t, 1.1847, e.AirDensity(), 1e-4)
}

func TestVolumetricEfficiency(t *testing.T) {
	e := testEngine()
	assert.InDelta(t, 0.9, e.VolumetricEfficiency(4500), 1e-12)
	assert.Less(t, e.VolumetricEfficiency(1000), e.VolumetricEfficiency(3000))
	assert.Less(t, e.VolumetricEfficiency(8000), e.VolumetricEfficiency(6000))
	assert.Equal(t, 0.4, e.VolumetricEfficiency(20000))
}

func TestCalculateTorque(t *testing.T) {
	e := testEngine()
	full := e.CalculateTorque(1)
	assert.Greater(t, full, 0.0)
	assert.Equal(t, full, e.Torque())
	// four-stroke: one cycle per two revolutions
	assert.InDelta(t, e.Power(), full*e.AngularVelocity(), 1e-6)
	assert.Greater(t, e.AirFlow(), 0.0)

	half := e.CalculateTorque(0.5)
	assert.InDelta(t, full/2, half, 1e-9)

	idle := e.CalculateTorque(0)
	assert.InDelta(t, full*0.05, idle, 1e-9)
	assert.Equal(t, idle, e.CalculateTorque(-3))
	assert.Equal(t, full, e.CalculateTorque(7))
}

func TestCalculateTorque_StandingCrank(t *testing.T) {
	e := testEngine()
	e.rpm = 0
	torque := e.CalculateTorque(1)
	assert.Greater(t, torque, 0.0)
	assert.False(t, math.IsInf(torque, 0))
	assert.Zero(t, e.Power())
}

func TestCalculateTorque_Limiter(t *testing.T) {
	e := testEngine()
	e.rpm = 7500
	below := e.CalculateTorque(1)

	e.rpm = 7800
	rolled := e.CalculateTorque(1)
	assert.Less(t, rolled, below)
	assert.Greater(t, rolled, 0.0)

	e.rpm = 8000
	assert.Zero(t, e.CalculateTorque(1))
}

func TestUpdateRPM(t *testing.T) {
	e := testEngine()
	e.CalculateTorque(1)
	e.UpdateRPM(e.Inertia(), tick)
	assert.Greater(t, e.RPM(), 1000.0)

	e.AddLoadTorque(50)
	e.AddLoadTorque(25)
	assert.Equal(t, 75.0, e.LoadTorque())
	e.UpdateRPM(e.Inertia(), tick)
	assert.Zero(t, e.LoadTorque())
}

func TestUpdateRPM_Clamped(t *testing.T) {
	e := testEngine()
	e.rpm = 7990
	e.torque = 1e6
	e.UpdateRPM(e.Inertia(), tick)
	assert.Equal(t, e.Redline(), e.RPM())

	e.torque = 0
	e.AddLoadTorque(1e6)
	e.UpdateRPM(e.Inertia(), tick)
	assert.Zero(t, e.RPM())
	assert.Zero(t, e.LoadTorque())
}

func TestUpdateRPM_HeavierCrankSpinsSlower(t *testing.T) {
	light, heavy := testEngine(), testEngine()
	light.CalculateTorque(1)
	heavy.CalculateTorque(1)

	light.UpdateRPM(0, tick)
	heavy.UpdateRPM(4*heavy.Inertia(), tick)

	assert.Greater(t, light.RPM(), heavy.RPM())
	assert.Greater(t, heavy.RPM(), 1000.0)
}

func TestUpdateRPM_NonPositiveStep(t *testing.T) {
	e := testEngine()
	e.CalculateTorque(1)
	e.AddLoadTorque(10)
	e.UpdateRPM(e.Inertia(), 0)
	assert.Equal(t, 1000.0, e.RPM())
	assert.Zero(t, e.LoadTorque())
}

func TestIdleHoldsAboveStall(t *testing.T) {
	e := testEngine()
	for i := 0; i < 600; i++ {
		e.CalculateTorque(0)
		e.UpdateRPM(e.Inertia(), tick)
	}
	assert.Greater(t, e.RPM(), e.StallRPM())
}
