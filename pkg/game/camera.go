package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PixelsPerMetre is the zoom of the top-down view.
const PixelsPerMetre = 12.0

// camera maps world metres (+Y up) onto the screen (+Y down), centred on a
// followed point.
type camera struct {
	centre        mgl64.Vec2
	width, height float64
}

// follow moves the camera a share of the way toward target each frame.
func (c *camera) follow(target mgl64.Vec2, share float64) {
	c.centre = c.centre.Add(target.Sub(c.centre).Mul(share))
}

func (c *camera) toScreen(p mgl64.Vec2) (float64, float64) {
	return c.width/2 + (p.X()-c.centre.X())*PixelsPerMetre,
		c.height/2 - (p.Y()-c.centre.Y())*PixelsPerMetre
}

// vectorToScreen turns a world direction into a screen delta at scale pixels
// per unit.
func vectorToScreen(v mgl64.Vec2, scale float64) (float64, float64) {
	return v.X() * scale, -v.Y() * scale
}

// tileOrigin is where the tile covering the top-left screen corner starts,
// in screen pixels, for a ground texture tile pixels square.
func (c *camera) tileOrigin(tile float64) (float64, float64) {
	x := math.Mod(c.centre.X()*PixelsPerMetre-c.width/2, tile)
	y := math.Mod(-c.centre.Y()*PixelsPerMetre-c.height/2, tile)
	if x < 0 {
		x += tile
	}
	if y < 0 {
		y += tile
	}
	return -x, -y
}
