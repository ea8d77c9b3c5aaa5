// Package telemetry collects, logs, publishes and plots the per-tick
// snapshots a car hands to its observer.
package telemetry

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

// Decimate forwards every n-th tick to o. n below one forwards every tick.
func Decimate(n int, o vehicle.Observer) vehicle.Observer {
	if n <= 1 {
		return o
	}
	return vehicle.ObserverFunc(func(s vehicle.Snapshot) {
		if s.Tick%uint64(n) == 0 {
			o.Observe(s)
		}
	})
}

// Multi fans a snapshot out to every non-nil observer, in order.
func Multi(observers ...vehicle.Observer) vehicle.Observer {
	list := make([]vehicle.Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return vehicle.ObserverFunc(func(s vehicle.Snapshot) {
		for _, o := range list {
			o.Observe(s)
		}
	})
}

// Recorder keeps snapshots in memory for plotting and summaries. A limit
// above zero keeps only the most recent samples.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	samples []vehicle.Snapshot
}

// NewRecorder returns an empty recorder.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Observe implements vehicle.Observer.
func (r *Recorder) Observe(s vehicle.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s)
	if r.limit > 0 && len(r.samples) > r.limit {
		r.samples = append(r.samples[:0], r.samples[len(r.samples)-r.limit:]...)
	}
}

// Samples returns a copy of the recorded snapshots, oldest first.
func (r *Recorder) Samples() []vehicle.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]vehicle.Snapshot(nil), r.samples...)
}

// Len is the number of recorded snapshots.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// Last returns the newest snapshot, if any.
func (r *Recorder) Last() (vehicle.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.samples) == 0 {
		return vehicle.Snapshot{}, false
	}
	return r.samples[len(r.samples)-1], true
}

// LogObserver writes one debug line per snapshot.
func LogObserver(logger zerolog.Logger) vehicle.Observer {
	return vehicle.ObserverFunc(func(s vehicle.Snapshot) {
		logger.Debug().
			Uint64("tick", s.Tick).
			Float64("t", s.Time).
			Float64("speed", s.Speed).
			Float64("heading", s.Heading).
			Float64("rpm", s.Engine.RPM).
			Str("gear", s.Gearbox.Label).
			Float64("clutchSlip", s.Gearbox.ClutchSlip).
			Float64("throttle", s.Throttle).
			Float64("brake", s.Brake).
			Float64("tcs", maxInterference(s, true)).
			Float64("abs", maxInterference(s, false)).
			Msg("tick")
	})
}

// maxInterference is the strongest regulator intervention across the wheels.
func maxInterference(s vehicle.Snapshot, traction bool) float64 {
	max := 0.0
	for _, w := range s.Wheels {
		v := w.BrakeInterference
		if traction {
			v = w.TractionInterference
		}
		if v > max {
			max = v
		}
	}
	return max
}
