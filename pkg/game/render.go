package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
	"github.com/golangdaddy/roadster-dynamics/pkg/physics"
	"github.com/golangdaddy/roadster-dynamics/pkg/road"
	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

const (
	forceScale    = 0.01 // px per N
	velocityScale = 4.0  // px per m/s
	coneRadius    = 0.25 // m
)

var (
	outlineColor    = color.RGBA{20, 20, 20, 255}
	windshieldColor = color.RGBA{150, 200, 255, 200}
	tireColor       = color.RGBA{30, 30, 30, 255}
)

// carSprite draws a top-down body for spec, bonnet at the top, to the
// view's scale. Wheels are drawn separately so they can steer.
func carSprite(spec car.Car, bodyColor color.Color) *ebiten.Image {
	w := float32(spec.Width * PixelsPerMetre)
	h := float32(spec.Length * PixelsPerMetre)
	img := ebiten.NewImage(int(w+0.5), int(h+0.5))

	img.Fill(bodyColor)
	vector.StrokeRect(img, 1, 1, w-2, h-2, 2, outlineColor, false)
	vector.DrawFilledRect(img, w*0.2, h*0.2, w*0.6, h*0.15, windshieldColor, false)
	vector.DrawFilledRect(img, w*0.25, h*0.75, w*0.5, h*0.08, windshieldColor, false)
	return img
}

// tireSprite is one tire seen from above.
func tireSprite(spec car.Car) *ebiten.Image {
	tireWidth := 0.22 * PixelsPerMetre
	w := int(tireWidth + 0.5)
	h := int(2*spec.Wheel.Radius*PixelsPerMetre + 0.5)
	img := ebiten.NewImage(w, h)
	img.Fill(tireColor)
	return img
}

// drawCar places the body and the four tires of v on screen.
func drawCar(screen *ebiten.Image, cam *camera, v vehicle.Vehicle, body, tire *ebiten.Image) {
	snap := v.Snapshot()
	pos := v.Position()
	heading := v.Heading()

	tw, th := float64(tire.Bounds().Dx()), float64(tire.Bounds().Dy())
	for _, w := range snap.Wheels {
		x, y := cam.toScreen(pos.Add(physics.ToWorld(w.Offset, heading)))
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-tw/2, -th/2)
		// screen rotation is clockwise, world heading anticlockwise
		op.GeoM.Rotate(w.Angle - heading)
		op.GeoM.Translate(x, y)
		screen.DrawImage(tire, op)
	}

	bw, bh := float64(body.Bounds().Dx()), float64(body.Bounds().Dy())
	x, y := cam.toScreen(pos)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-bw/2, -bh/2)
	op.GeoM.Rotate(-heading)
	op.GeoM.Translate(x, y)
	screen.DrawImage(body, op)
}

// drawForces draws each tire force from its contact patch and the body
// velocity from the centre of mass.
func drawForces(screen *ebiten.Image, cam *camera, v vehicle.Vehicle) {
	snap := v.Snapshot()
	pos := v.Position()

	for _, w := range snap.Wheels {
		x, y := cam.toScreen(pos.Add(physics.ToWorld(w.Offset, snap.Heading)))
		dx, dy := vectorToScreen(w.Force, forceScale)
		c := color.RGBA{255, 220, 0, 255}
		if w.GripLevel >= 1 {
			c = color.RGBA{255, 60, 60, 255}
		}
		vector.StrokeLine(screen, float32(x), float32(y), float32(x+dx), float32(y+dy), 2, c, true)
	}

	x, y := cam.toScreen(pos)
	dx, dy := vectorToScreen(snap.Velocity, velocityScale)
	vector.StrokeLine(screen, float32(x), float32(y), float32(x+dx), float32(y+dy), 2, color.RGBA{80, 160, 255, 255}, true)
	vector.DrawFilledCircle(screen, float32(x), float32(y), 3, color.White, true)
}

// drawCourse draws the cones, coloured by how each was taken.
func drawCourse(screen *ebiten.Image, cam *camera, course *road.Course) {
	if course == nil {
		return
	}
	r := float32(coneRadius * PixelsPerMetre)
	for _, g := range course.Gates {
		c := color.RGBA{255, 130, 0, 255}
		switch {
		case g.Hit:
			c = color.RGBA{120, 120, 120, 255}
		case g.Missed:
			c = color.RGBA{220, 40, 40, 255}
		case g.Passed:
			c = color.RGBA{60, 200, 80, 255}
		}
		x, y := cam.toScreen(g.Position)
		vector.DrawFilledCircle(screen, float32(x), float32(y), r, c, true)

		// tick on the side the cone is to be passed
		tx := float32(x) + float32(g.Side)*r*2.5
		vector.StrokeLine(screen, float32(x), float32(y), tx, float32(y), 1, c, true)
	}
}
