package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/golangdaddy/roadster-dynamics/pkg/road"
	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

// KMHPerMetrePerSecond converts body speed to the speedometer's unit
const KMHPerMetrePerSecond = 3.6

// gaugeMaxKMH is the speedometer gauge's full scale
const gaugeMaxKMH = 200.0

var (
	panelColor  = color.RGBA{20, 20, 30, 200}
	borderColor = color.RGBA{100, 100, 120, 255}
	labelColor  = color.RGBA{200, 200, 200, 255}
	offColor    = color.RGBA{70, 70, 80, 255}
)

// hud draws the instrument cluster over the driving view
type hud struct {
	face          text.Face
	width, height float64
}

func (h *hud) draw(screen *ebiten.Image, snap vehicle.Snapshot, redline float64, progress *road.Progress) {
	h.drawSpeedometer(screen, snap)
	h.drawTachometer(screen, snap, redline)
	h.drawRegulators(screen, snap)
	h.drawGrip(screen, snap)
	h.drawSteeringIndicator(screen, snap)

	if progress != nil {
		line := fmt.Sprintf("CONES passed %d  missed %d  hit %d  left %d",
			progress.Passed, progress.Missed, progress.Hits, progress.Remaining)
		h.label(screen, line, h.width/2-150, 20, 1, labelColor)
	}
	ebitenutil.DebugPrintAt(screen, "W/S throttle brake  A/D steer  E/C shift  SHIFT clutch  V vectors  P pause  R reset  ESC menu",
		10, int(h.height)-18)
}

func (h *hud) label(screen *ebiten.Image, s string, x, y, scale float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, h.face, op)
}

func panel(screen *ebiten.Image, x, y, w, h float64) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), panelColor, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 2, borderColor, false)
}

// drawSpeedometer draws a speedometer displaying current speed in km/h
func (h *hud) drawSpeedometer(screen *ebiten.Image, snap vehicle.Snapshot) {
	kmh := snap.Speed * KMHPerMetrePerSecond

	x, y := 20.0, 20.0
	width, height := 180.0, 120.0
	panel(screen, x, y, width, height)

	var speedColor color.RGBA
	switch {
	case kmh < 80:
		speedColor = color.RGBA{100, 255, 100, 255}
	case kmh < 130:
		speedColor = color.RGBA{255, 255, 100, 255}
	default:
		speedColor = color.RGBA{255, 100, 100, 255}
	}

	speedText := fmt.Sprintf("%.0f", kmh)
	textScale := 3.0
	textWidth := text.Advance(speedText, h.face) * textScale
	h.label(screen, speedText, x+width/2-textWidth/2, y+30, textScale, speedColor)

	unit := "KM/H"
	unitWidth := text.Advance(unit, h.face) * 1.5
	h.label(screen, unit, x+width/2-unitWidth/2, y+75, 1.5, labelColor)

	drawGauge(screen, x+10, y+height-25, width-20, 15, kmh/gaugeMaxKMH)
}

// drawTachometer shows the crank speed against the redline with the gear
// and clutch state beside it
func (h *hud) drawTachometer(screen *ebiten.Image, snap vehicle.Snapshot, redline float64) {
	x, y := 20.0, 150.0
	width, height := 180.0, 90.0
	panel(screen, x, y, width, height)

	h.label(screen, snap.Gearbox.Label, x+12, y+10, 4, color.RGBA{255, 200, 50, 255})
	h.label(screen, fmt.Sprintf("%5.0f RPM", snap.Engine.RPM), x+60, y+12, 1.5, labelColor)

	clutch := fmt.Sprintf("CLUTCH %3.0f%%", snap.Gearbox.ClutchEngagement*100)
	clutchColor := labelColor
	if snap.Gearbox.ClutchHeld {
		clutchColor = color.RGBA{255, 200, 50, 255}
	}
	h.label(screen, clutch, x+60, y+36, 1, clutchColor)

	share := 0.0
	if redline > 0 {
		share = snap.Engine.RPM / redline
	}
	drawGauge(screen, x+10, y+height-25, width-20, 15, share)
}

// drawRegulators lights TCS and ABS while either is cutting torque
func (h *hud) drawRegulators(screen *ebiten.Image, snap vehicle.Snapshot) {
	tcs, abs := 0.0, 0.0
	for _, w := range snap.Wheels {
		tcs = math.Max(tcs, w.TractionInterference)
		abs = math.Max(abs, w.BrakeInterference)
	}

	x, y := 20.0, 250.0
	for i, r := range []struct {
		name  string
		value float64
	}{{"TCS", tcs}, {"ABS", abs}} {
		bx := x + float64(i)*90
		c := offColor
		if r.value > 0 {
			c = color.RGBA{255, 150, 0, 255}
		}
		vector.DrawFilledRect(screen, float32(bx), float32(y), 80, 30, c, false)
		h.label(screen, fmt.Sprintf("%s %3.0f", r.name, r.value), bx+8, y+8, 1, color.Black)
	}
}

// drawGrip lays out one grip bar per wheel in the car's own arrangement
func (h *hud) drawGrip(screen *ebiten.Image, snap vehicle.Snapshot) {
	x, y := h.width-200, 20.0
	panel(screen, x, y, 180, 150)
	h.label(screen, "GRIP", x+70, y+8, 1, labelColor)

	spots := [4][2]float64{{x + 20, y + 30}, {x + 110, y + 30}, {x + 20, y + 95}, {x + 110, y + 95}}
	for i, w := range snap.Wheels {
		bx, by := spots[i][0], spots[i][1]
		drawGauge(screen, bx, by, 50, 12, w.GripLevel)
		h.label(screen, fmt.Sprintf("%.0fN", w.NormalForce), bx, by+18, 1, labelColor)
	}
}

// drawSteeringIndicator draws a visual indicator of the steering wheel position
func (h *hud) drawSteeringIndicator(screen *ebiten.Image, snap vehicle.Snapshot) {
	cx := float32(h.width - 80)
	cy := float32(h.height - 90)
	radius := float32(30)

	vector.StrokeCircle(screen, cx, cy, radius, 4, color.RGBA{100, 100, 100, 255}, true)
	vector.DrawFilledCircle(screen, cx, cy, 3, color.RGBA{200, 200, 200, 255}, true)

	indicator := color.RGBA{50, 255, 50, 255}
	if math.Abs(snap.Steering) > 0.1 {
		indicator = color.RGBA{255, 50, 50, 255}
	}
	// a quarter turn of the rim at full lock
	angle := snap.Steering * math.Pi / 2
	length := float64(radius - 5)
	ex := cx + float32(length*math.Sin(angle))
	ey := cy - float32(length*math.Cos(angle))
	vector.StrokeLine(screen, cx, cy, ex, ey, 4, indicator, true)

	label := fmt.Sprintf("Steering: %.2f  %.1f deg", snap.Steering, snap.SteeringAngle*180/math.Pi)
	ebitenutil.DebugPrintAt(screen, label, int(h.width)-190, int(h.height)-50)
}

// drawGauge draws a horizontal bar filled to share, shading from green
// through yellow to red
func drawGauge(screen *ebiten.Image, x, y, width, height float64, share float64) {
	share = math.Max(0, math.Min(share, 1))

	vector.DrawFilledRect(screen, float32(x), float32(y), float32(width), float32(height), color.RGBA{40, 40, 40, 255}, false)

	if filled := width * share; filled > 0 {
		var barColor color.RGBA
		if share < 0.5 {
			ratio := share / 0.5
			barColor = color.RGBA{uint8(100 + ratio*155), 255, 100, 255}
		} else {
			ratio := (share - 0.5) / 0.5
			barColor = color.RGBA{255, uint8(255 - ratio*155), uint8(100 - ratio*100), 255}
		}
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(filled), float32(height), barColor, false)
	}
	vector.StrokeRect(screen, float32(x), float32(y), float32(width), float32(height), 1, color.RGBA{150, 150, 150, 255}, false)
}
