package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
	"github.com/golangdaddy/roadster-dynamics/pkg/ui"
	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

// Screen size in logical pixels.
const (
	ScreenWidth  = 1024
	ScreenHeight = 600
)

// Options configure the interactive session.
type Options struct {
	// Preset is highlighted on the car selection screen. Picking it drives
	// Spec, which may carry overrides on top of the preset.
	Preset string
	Spec   *car.Car

	TickRate float64 // simulation ticks per second, matched to ebiten's TPS
	Course   string  // cone course laid out on the skid pad, empty for none
	Observer vehicle.Observer
	Logger   zerolog.Logger
}

// Game implements the ebiten.Game interface and manages the overall game state
type Game struct {
	opts          Options
	currentScreen Screen
}

// Screen represents a UI screen interface
type Screen interface {
	Update() error
	Draw(screen *ebiten.Image)
}

// NewGame creates a new game instance starting on the title screen
func NewGame(opts Options) *Game {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	g := &Game{opts: opts}
	g.showTitle()
	return g
}

// Update handles game logic updates
func (g *Game) Update() error {
	if g.currentScreen != nil {
		return g.currentScreen.Update()
	}
	return nil
}

// Draw renders the current screen
func (g *Game) Draw(screen *ebiten.Image) {
	if g.currentScreen != nil {
		g.currentScreen.Draw(screen)
	}
}

// Layout returns the game's screen dimensions
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return ScreenWidth, ScreenHeight
}

func (g *Game) showTitle() {
	g.currentScreen = ui.NewTitleScreen(func() {
		g.currentScreen = ui.NewCarSelectionScreen(g.opts.Preset, g.startDriving)
	})
}

// startDriving transitions to the driving screen with the chosen car
func (g *Game) startDriving(preset string, selected *car.Car) {
	spec := selected
	if preset == g.opts.Preset && g.opts.Spec != nil {
		spec = g.opts.Spec.Clone()
	}

	screen, err := NewDrivingScreen(spec, g.opts, g.showTitle)
	if err != nil {
		g.opts.Logger.Error().Err(err).Str("car", spec.Name()).Msg("cannot start driving")
		g.showTitle()
		return
	}
	g.opts.Logger.Info().Str("car", spec.Name()).Str("course", g.opts.Course).Msg("driving")
	g.currentScreen = screen
}
