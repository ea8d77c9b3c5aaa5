package sim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

// Phase holds one set of controls for a stretch of time.
type Phase struct {
	Name     string   `json:"name"`
	Duration float64  `json:"duration"` // seconds
	Controls Controls `json:"controls"`
}

// Script is a timed list of phases. The last phase holds once the script
// runs out.
type Script struct {
	Name         string  `json:"name"`
	InitialSpeed float64 `json:"initialSpeed"` // m/s along the heading at t=0
	Phases       []Phase `json:"phases"`
}

// Length is the total scripted time in seconds.
func (s *Script) Length() float64 {
	total := 0.0
	for _, p := range s.Phases {
		total += p.Duration
	}
	return total
}

// At returns the phase active at time t.
func (s *Script) At(t float64) (Phase, bool) {
	if len(s.Phases) == 0 {
		return Phase{}, false
	}
	end := 0.0
	for _, p := range s.Phases {
		end += p.Duration
		if t < end {
			return p, true
		}
	}
	return s.Phases[len(s.Phases)-1], true
}

// Controls implements Driver from the snapshot's clock.
func (s *Script) Controls(snap vehicle.Snapshot) Controls {
	p, _ := s.At(snap.Time)
	return p.Controls
}

var scenarios = map[string]func() *Script{
	"launch": launchScript,
	"brake":  brakeScript,
	"slalom": slalomScript,
	"idle":   idleScript,
}

// Scenarios lists the built-in script names.
func Scenarios() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenario returns a fresh copy of the named built-in script.
func Scenario(name string) (*Script, error) {
	build, ok := scenarios[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q, have %s", name, strings.Join(Scenarios(), ", "))
	}
	return build(), nil
}

// launchScript pulls away in first at full throttle, then changes up to
// second with a lift and a clutch press.
func launchScript() *Script {
	return &Script{
		Name: "launch",
		Phases: []Phase{
			{Name: "first", Duration: 3.5, Controls: Controls{Throttle: 1, ShiftUp: true}},
			{Name: "lift", Duration: 0.3, Controls: Controls{Clutch: true}},
			{Name: "change", Duration: 0.3, Controls: Controls{Clutch: true, ShiftUp: true}},
			{Name: "second", Duration: 6, Controls: Controls{Throttle: 1}},
		},
	}
}

func brakeScript() *Script {
	return &Script{
		Name:         "brake",
		InitialSpeed: 15,
		Phases: []Phase{
			{Name: "coast", Duration: 0.5},
			{Name: "stop", Duration: 10, Controls: Controls{Brake: 1}},
		},
	}
}

// slalomScript weaves left and right in first gear at part throttle.
func slalomScript() *Script {
	s := &Script{
		Name: "slalom",
		Phases: []Phase{
			{Name: "pull away", Duration: 1.5, Controls: Controls{Throttle: 0.5, ShiftUp: true}},
		},
	}
	steer := 0.6
	for i := 0; i < 8; i++ {
		s.Phases = append(s.Phases, Phase{
			Name:     fmt.Sprintf("gate %d", i+1),
			Duration: 1.2,
			Controls: Controls{Throttle: 0.4, Steering: steer},
		})
		steer = -steer
	}
	return s
}

func idleScript() *Script {
	return &Script{
		Name:   "idle",
		Phases: []Phase{{Name: "idle", Duration: 10}},
	}
}
