package telemetry

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

const plotDPI = 150

// ErrNoSamples is returned when there is nothing to plot.
var ErrNoSamples = errors.New("no samples to plot")

type series struct {
	name  string
	value func(vehicle.Snapshot) float64
}

type graph struct {
	file, title, ylabel string
	lines               []series
}

func wheelSeries(value func(vehicle.WheelSnapshot) float64) []series {
	names := [4]string{"front-left", "front-right", "back-left", "back-right"}
	lines := make([]series, 0, len(names))
	for i, name := range names {
		lines = append(lines, series{name, func(s vehicle.Snapshot) float64 { return value(s.Wheels[i]) }})
	}
	return lines
}

func graphs() []graph {
	return []graph{
		{"speed.png", "Speed", "speed (m/s)", []series{
			{"speed", func(s vehicle.Snapshot) float64 { return s.Speed }},
		}},
		{"engine.png", "Engine", "rpm", []series{
			{"rpm", func(s vehicle.Snapshot) float64 { return s.Engine.RPM }},
		}},
		{"clutch.png", "Clutch", "slip (rad/s)", []series{
			{"slip", func(s vehicle.Snapshot) float64 { return s.Gearbox.ClutchSlip }},
		}},
		{"inputs.png", "Driver inputs", "input", []series{
			{"throttle", func(s vehicle.Snapshot) float64 { return s.Throttle }},
			{"brake", func(s vehicle.Snapshot) float64 { return s.Brake }},
			{"steering", func(s vehicle.Snapshot) float64 { return s.Steering }},
		}},
		{"wheel_speed.png", "Wheel speed", "omega (rad/s)",
			wheelSeries(func(w vehicle.WheelSnapshot) float64 { return w.AngularVelocity })},
		{"wheel_load.png", "Normal force", "load (N)",
			wheelSeries(func(w vehicle.WheelSnapshot) float64 { return w.NormalForce })},
		{"grip.png", "Grip in use", "grip",
			wheelSeries(func(w vehicle.WheelSnapshot) float64 { return w.GripLevel })},
		{"regulators.png", "Regulator intervention", "interference (%)", []series{
			{"tcs", func(s vehicle.Snapshot) float64 { return maxInterference(s, true) }},
			{"abs", func(s vehicle.Snapshot) float64 { return maxInterference(s, false) }},
		}},
	}
}

// WritePlots renders the standard graphs of a run into dir and returns the
// files written.
func WritePlots(dir string, samples []vehicle.Snapshot) ([]string, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create directory: %w", err)
	}

	var written []string
	for _, g := range graphs() {
		p, err := linePlot(g, samples)
		if err != nil {
			return written, fmt.Errorf("plotting %s: %w", g.file, err)
		}
		filename := filepath.Join(dir, g.file)
		if err := savePlotPNG(p, 8, 5, filename); err != nil {
			return written, err
		}
		written = append(written, filename)
	}
	return written, nil
}

func linePlot(g graph, samples []vehicle.Snapshot) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = g.title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = g.ylabel
	p.Add(plotter.NewGrid())

	args := make([]any, 0, 2*len(g.lines))
	for _, line := range g.lines {
		pts := make(plotter.XYs, len(samples))
		for i, s := range samples {
			pts[i].X = s.Time
			pts[i].Y = line.value(s)
		}
		args = append(args, line.name, pts)
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return nil, err
	}
	return p, nil
}

func savePlotPNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	w := vg.Length(widthIn) * vg.Inch
	h := vg.Length(heightIn) * vg.Inch

	c := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(plotDPI),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
