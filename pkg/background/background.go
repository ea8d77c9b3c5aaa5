package background

import (
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
)

// Generator creates ground textures that tile seamlessly
type Generator struct {
	Width  int
	Height int
}

// NewGenerator creates a new background generator
func NewGenerator(width, height int) *Generator {
	return &Generator{
		Width:  width,
		Height: height,
	}
}

// GenerateTarmac creates a skid-pad tile: speckled asphalt with a painted
// grid line every gridPixels so motion reads at any speed
func (g *Generator) GenerateTarmac(seed int64, gridPixels int) *ebiten.Image {
	img := ebiten.NewImage(g.Width, g.Height)
	rng := rand.New(rand.NewSource(seed))

	img.Fill(color.RGBA{58, 60, 64, 255})

	// Aggregate
	for i := 0; i < g.Width*g.Height/8; i++ {
		x := rng.Intn(g.Width)
		y := rng.Intn(g.Height)
		shade := uint8(40 + rng.Intn(50))
		img.Set(x, y, color.RGBA{shade, shade, shade + 4, 255})
	}

	// Patches of older surface
	for i := 0; i < 6; i++ {
		g.drawPatch(img, rng.Intn(g.Width), rng.Intn(g.Height), rng)
	}

	if gridPixels > 0 {
		g.drawGrid(img, gridPixels)
	}
	return img
}

// drawPatch darkens a rough round area, wrapping at the edges
func (g *Generator) drawPatch(img *ebiten.Image, x, y int, rng *rand.Rand) {
	radius := 10 + rng.Intn(25)
	c := color.RGBA{48, 49, 53, 255}

	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius || rng.Intn(4) == 0 {
				continue
			}
			px := (x + dx + g.Width) % g.Width
			py := (y + dy + g.Height) % g.Height
			img.Set(px, py, c)
		}
	}
}

// drawGrid paints thin lines on the tile edges and every step pixels
func (g *Generator) drawGrid(img *ebiten.Image, step int) {
	line := color.RGBA{90, 92, 96, 255}
	for x := 0; x < g.Width; x += step {
		for y := 0; y < g.Height; y++ {
			img.Set(x, y, line)
		}
	}
	for y := 0; y < g.Height; y += step {
		for x := 0; x < g.Width; x++ {
			img.Set(x, y, line)
		}
	}
}
