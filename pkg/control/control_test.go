package control

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
)

type fakeWheel struct {
	slip   float64
	omega  float64
	locked bool
	reg    Regulation
}

func (f *fakeWheel) SlipRatio(mgl64.Vec2) float64 { return f.slip }
func (f *fakeWheel) AngularVelocity() float64     { return f.omega }
func (f *fakeWheel) Lock()                        { f.omega = 0; f.locked = true }
func (f *fakeWheel) Regulation() *Regulation      { return &f.reg }

var (
	tcsGains = car.RegulatorSpec{SlipSetpoint: 0.1, Kp: 800, Kd: 200}
	absGains = car.RegulatorSpec{SlipSetpoint: -0.2, Kp: 1500, Kd: 300}
	forward  = mgl64.Vec2{0, 10}
)

func TestTractionControl_NonPositiveRequest(t *testing.T) {
	tc := NewTractionControl(tcsGains)
	w := &fakeWheel{slip: 3, omega: 50, reg: Regulation{TractionInterference: 40}}

	assert.Zero(t, tc.Regulate(w, 0, forward))
	assert.Zero(t, tc.Regulate(w, -200, forward))
	assert.Zero(t, w.reg.TractionInterference)
	assert.Zero(t, w.reg.PreviousTractionSlip)
}

func TestTractionControl_CutsWheelspin(t *testing.T) {
	tc := NewTractionControl(tcsGains)
	w := &fakeWheel{slip: 0.6, omega: 40}

	got := tc.Regulate(w, 500, forward)
	// 500 + 800*(0.1-0.6) - 200*0.6 = -20, floored at zero
	assert.Zero(t, got)
	assert.InDelta(t, 100, w.reg.TractionInterference, 1e-9)
	assert.Equal(t, 0.6, w.reg.PreviousTractionSlip)

	w.slip = 0.3
	got = tc.Regulate(w, 500, forward)
	// 500 + 800*(-0.2) - 200*(-0.3) = 400
	assert.InDelta(t, 400, got, 1e-9)
	assert.InDelta(t, 20, w.reg.TractionInterference, 1e-9)
}

func TestTractionControl_BoostsBelowSetpoint(t *testing.T) {
	tc := NewTractionControl(tcsGains)
	w := &fakeWheel{slip: 0}

	// 300 + 800*0.1 - 200*0 = 380
	assert.InDelta(t, 380, tc.Regulate(w, 300, forward), 1e-9)
	assert.Zero(t, w.reg.TractionInterference)
	assert.Zero(t, tc.InterferencePercent())
}

func TestTractionControl_InterferencePercent(t *testing.T) {
	tc := NewTractionControl(tcsGains)
	w := &fakeWheel{slip: 0.3, reg: Regulation{PreviousTractionSlip: 0.3}}

	// 500 + 800*(-0.2) = 340
	assert.InDelta(t, 340, tc.Regulate(w, 500, forward), 1e-9)
	assert.InDelta(t, 32, tc.InterferencePercent(), 1e-9)
	assert.Equal(t, w.reg.TractionInterference, tc.InterferencePercent())

	tc.Regulate(w, 0, forward)
	assert.Zero(t, tc.InterferencePercent())
}

func TestAntiLock_OpposesSpin(t *testing.T) {
	abs := NewAntiLockBrakes(absGains)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		omega := rng.Float64()*200 - 100
		w := &fakeWheel{
			omega: omega,
			slip:  rng.Float64()*4 - 2,
			reg:   Regulation{PreviousBrakeSlip: rng.Float64()*4 - 2},
		}
		requested := rng.Float64() * 2000
		got := abs.Regulate(w, requested, forward, rng.Float64()*40)

		if omega > 0 {
			assert.LessOrEqual(t, got, 0.0)
		} else {
			assert.GreaterOrEqual(t, got, 0.0)
		}
		assert.GreaterOrEqual(t, w.reg.BrakeInterference, 0.0)
		assert.LessOrEqual(t, w.reg.BrakeInterference, 100.0)
	}
}

func TestAntiLock_StoppedWheelIsHeld(t *testing.T) {
	abs := NewAntiLockBrakes(absGains)
	w := &fakeWheel{omega: 5e-4}

	assert.Zero(t, abs.Regulate(w, 1000, forward, 10))
	assert.True(t, w.locked)
	assert.Zero(t, w.omega)
}

func TestAntiLock_FullTorqueAtStandstill(t *testing.T) {
	abs := NewAntiLockBrakes(absGains)

	w := &fakeWheel{omega: 3, slip: -1}
	assert.Equal(t, -1200.0, abs.Regulate(w, 1200, mgl64.Vec2{}, 0.05))

	w = &fakeWheel{omega: -3, slip: -1}
	assert.Equal(t, 1200.0, abs.Regulate(w, 1200, mgl64.Vec2{}, 0.05))
}

func TestAntiLock_ReleasesLockingWheel(t *testing.T) {
	abs := NewAntiLockBrakes(absGains)
	w := &fakeWheel{omega: 2, slip: -0.9, reg: Regulation{PreviousBrakeSlip: -0.9}}

	// -1000 + 1500*0.7 = 50, clamped to no braking at all
	assert.Zero(t, abs.Regulate(w, 1000, forward, 10))
	assert.InDelta(t, 100, w.reg.BrakeInterference, 1e-9)

	w = &fakeWheel{omega: 20, slip: -0.3, reg: Regulation{PreviousBrakeSlip: -0.3}}
	// -1000 + 1500*0.1 = -850
	assert.InDelta(t, -850, abs.Regulate(w, 1000, forward, 10), 1e-9)
	assert.InDelta(t, 15, w.reg.BrakeInterference, 1e-9)
	assert.InDelta(t, 15, abs.InterferencePercent(), 1e-9)
}

func TestAntiLock_PassesOvershoot(t *testing.T) {
	abs := NewAntiLockBrakes(absGains)

	w := &fakeWheel{omega: 20, slip: 0}
	// -1000 + 1500*(-0.2) - 300*0 = -1300
	assert.InDelta(t, -1300, abs.Regulate(w, 1000, forward, 10), 1e-9)
	assert.Zero(t, w.reg.BrakeInterference)
	assert.Zero(t, abs.InterferencePercent())

	w = &fakeWheel{omega: -20, slip: 0.5, reg: Regulation{PreviousBrakeSlip: 0.5}}
	// 1000 + 1500*(-0.7) = -50, the wrong way for a wheel spinning backwards
	assert.Zero(t, abs.Regulate(w, 1000, forward, 10))
	assert.InDelta(t, 100, abs.InterferencePercent(), 1e-9)
}

func TestAntiLock_NoRequestNoTorque(t *testing.T) {
	abs := NewAntiLockBrakes(absGains)
	w := &fakeWheel{omega: 10, slip: 0.5}
	assert.Zero(t, abs.Regulate(w, 0, forward, 10))
	assert.False(t, w.locked)
}
