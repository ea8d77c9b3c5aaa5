package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/golangdaddy/roadster-dynamics/pkg/sim"
	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

// keyboardDriver reads the driving keys once per tick. Shift keys are
// reported while held; the runner acts on the press.
type keyboardDriver struct{}

func anyPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// Controls implements sim.Driver.
func (keyboardDriver) Controls(vehicle.Snapshot) sim.Controls {
	var c sim.Controls
	if anyPressed(ebiten.KeyW, ebiten.KeyArrowUp) {
		c.Throttle = 1
	}
	if anyPressed(ebiten.KeyS, ebiten.KeyArrowDown) {
		c.Brake = 1
	}
	if anyPressed(ebiten.KeyA, ebiten.KeyArrowLeft) {
		c.Steering--
	}
	if anyPressed(ebiten.KeyD, ebiten.KeyArrowRight) {
		c.Steering++
	}
	c.Clutch = anyPressed(ebiten.KeyShiftLeft, ebiten.KeyShiftRight)
	c.ShiftUp = ebiten.IsKeyPressed(ebiten.KeyE)
	c.ShiftDown = ebiten.IsKeyPressed(ebiten.KeyC)
	return c
}
