package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/bitmapfont/v4"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/golangdaddy/roadster-dynamics/pkg/models"
	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
)

// CarSelectionScreen lets the player pick one of the preset cars
type CarSelectionScreen struct {
	onSelected    func(preset string, c *car.Car)
	keys          []string
	cars          []*car.Car
	selectedIndex int
}

// NewCarSelectionScreen lists the inventory with preselect highlighted
func NewCarSelectionScreen(preselect string, onSelected func(preset string, c *car.Car)) *CarSelectionScreen {
	cs := &CarSelectionScreen{
		onSelected: onSelected,
		keys:       models.CarInventory.Keys(),
		cars:       models.CarInventory.GetAllCars(),
	}
	for i, key := range cs.keys {
		if key == preselect {
			cs.selectedIndex = i
		}
	}
	return cs
}

func (cs *CarSelectionScreen) Update() error {
	if len(cs.cars) == 0 {
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		cs.selectedIndex = (cs.selectedIndex + len(cs.cars) - 1) % len(cs.cars)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		cs.selectedIndex = (cs.selectedIndex + 1) % len(cs.cars)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && cs.onSelected != nil {
		cs.onSelected(cs.keys[cs.selectedIndex], cs.cars[cs.selectedIndex].Clone())
	}
	return nil
}

func (cs *CarSelectionScreen) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 40, 255})

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	face := text.NewGoXFace(bitmapfont.Face)

	drawCentered(screen, "SELECT YOUR CAR", face, float64(w)/2, 50, 3, color.White)

	cellW := 230.0
	startX := float64(w)/2 - cellW*float64(len(cs.cars))/2
	y := 150.0

	for i, c := range cs.cars {
		x := startX + float64(i)*cellW

		panel := color.RGBA{40, 40, 60, 255}
		if i == cs.selectedIndex {
			panel = color.RGBA{110, 95, 20, 255}
		}
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(cellW-20), 260, panel, false)

		// Footprint to scale, 20 px per metre
		bodyW, bodyL := float32(c.Width*20), float32(c.Length*20)
		vector.DrawFilledRect(screen, float32(x+(cellW-20)/2)-bodyW/2, float32(y+20), bodyW, bodyL, color.RGBA{200, 40, 40, 255}, false)

		nameColor := color.Color(color.White)
		if i == cs.selectedIndex {
			nameColor = color.RGBA{255, 255, 0, 255}
		}
		lines := []string{
			c.Name(),
			fmt.Sprintf("%s  %.0f kg", cs.keys[i], c.Weight),
			fmt.Sprintf("%d gears  %.0f%% front", len(c.Gearbox.Ratios), c.FrontWeightBias*100),
			fmt.Sprintf("redline %.0f rpm", c.Engine.Redline),
		}
		for j, line := range lines {
			op := &text.DrawOptions{}
			op.GeoM.Translate(x+10, y+130+float64(j)*20)
			op.ColorScale.ScaleWithColor(nameColor)
			text.Draw(screen, line, face, op)
		}
	}

	drawCentered(screen, "ARROWS to Select   ENTER to Confirm", face, float64(w)/2, float64(h)-50, 1.5, color.RGBA{200, 200, 200, 255})
}
