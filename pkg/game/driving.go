package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/bitmapfont/v4"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog"

	"github.com/golangdaddy/roadster-dynamics/pkg/background"
	"github.com/golangdaddy/roadster-dynamics/pkg/models/car"
	"github.com/golangdaddy/roadster-dynamics/pkg/road"
	"github.com/golangdaddy/roadster-dynamics/pkg/sim"
	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

const (
	groundTile = 240 // px, a multiple of the grid step
	groundGrid = 60  // px, five metres at the default zoom
)

// DrivingScreen is the live top-down view of one car driven from the
// keyboard.
type DrivingScreen struct {
	spec     car.Car
	opts     Options
	runner   *sim.Runner
	car      *vehicle.Car
	course   *road.Course
	progress road.Progress

	ground *ebiten.Image
	body   *ebiten.Image
	tire   *ebiten.Image
	camera camera
	hud    hud

	showForces bool
	paused     bool
	onExit     func()
	logger     zerolog.Logger
}

// NewDrivingScreen puts a car built from spec at the origin, at rest in
// neutral.
func NewDrivingScreen(spec *car.Car, opts Options, onExit func()) (*DrivingScreen, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ds := &DrivingScreen{
		spec:   *spec.Clone(),
		opts:   opts,
		ground: background.NewGenerator(groundTile, groundTile).GenerateTarmac(7, groundGrid),
		body:   carSprite(*spec, color.RGBA{200, 30, 30, 255}),
		tire:   tireSprite(*spec),
		camera: camera{width: ScreenWidth, height: ScreenHeight},
		hud: hud{
			face:   text.NewGoXFace(bitmapfont.Face),
			width:  ScreenWidth,
			height: ScreenHeight,
		},
		onExit: onExit,
		logger: opts.Logger.With().Str("car", spec.Name()).Logger(),
	}

	if opts.Course != "" {
		course, err := road.Lookup(opts.Course)
		if err != nil {
			return nil, err
		}
		ds.course = course
	}

	if err := ds.reset(); err != nil {
		return nil, err
	}
	return ds, nil
}

// reset starts over with a fresh car.
func (ds *DrivingScreen) reset() error {
	ds.car = vehicle.NewCar(&ds.spec)
	ds.car.SetObserver(ds.opts.Observer)

	runner, err := sim.NewRunner(ds.car, keyboardDriver{}, ds.opts.TickRate, ds.logger)
	if err != nil {
		return fmt.Errorf("starting runner: %w", err)
	}
	ds.runner = runner

	if ds.course != nil {
		ds.course.Reset()
		ds.progress = ds.course.Progress()
	}
	ds.camera.centre = ds.car.Position()
	return nil
}

// Update advances the simulation one tick per frame
func (ds *DrivingScreen) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if ds.onExit != nil {
			ds.onExit()
		}
		return nil
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		ds.logger.Info().Uint64("tick", ds.car.Ticks()).Msg("reset")
		return ds.reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		ds.paused = !ds.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		ds.showForces = !ds.showForces
	}
	if ds.paused {
		return nil
	}

	ds.runner.Step()
	if ds.course != nil {
		before := ds.progress
		ds.progress = ds.course.Update(ds.car)
		if ds.progress.Finished && !before.Finished {
			ds.logger.Info().
				Int("passed", ds.progress.Passed).
				Int("missed", ds.progress.Missed).
				Int("hits", ds.progress.Hits).
				Float64("t", ds.car.Elapsed()).
				Msg("course finished")
		}
	}
	ds.camera.follow(ds.car.Position(), 0.2)
	return nil
}

// Draw renders the ground, the course, the car and the instruments
func (ds *DrivingScreen) Draw(screen *ebiten.Image) {
	ds.drawGround(screen)
	drawCourse(screen, &ds.camera, ds.course)
	drawCar(screen, &ds.camera, ds.car, ds.body, ds.tire)
	if ds.showForces {
		drawForces(screen, &ds.camera, ds.car)
	}

	var progress *road.Progress
	if ds.course != nil {
		progress = &ds.progress
	}
	ds.hud.draw(screen, ds.car.Snapshot(), ds.spec.Engine.Redline, progress)

	if ds.paused {
		ds.hud.label(screen, "PAUSED", ScreenWidth/2-72, ScreenHeight/2-16, 4, color.White)
	}
}

// drawGround tiles the tarmac texture under the camera
func (ds *DrivingScreen) drawGround(screen *ebiten.Image) {
	ox, oy := ds.camera.tileOrigin(groundTile)
	for y := oy; y < ScreenHeight; y += groundTile {
		for x := ox; x < ScreenWidth; x += groundTile {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(x, y)
			screen.DrawImage(ds.ground, op)
		}
	}
}
