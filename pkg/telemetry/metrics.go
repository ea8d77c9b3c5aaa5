package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/golangdaddy/roadster-dynamics/pkg/vehicle"
)

const instrumentationName = "github.com/golangdaddy/roadster-dynamics/pkg/telemetry"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics publishes the latest snapshot as OpenTelemetry gauges and counts
// ticks. It is an observer; the gauges are read whenever the configured
// reader collects.
type Metrics struct {
	ticks        metric.Int64Counter
	speed        metric.Float64ObservableGauge
	rpm          metric.Float64ObservableGauge
	clutchSlip   metric.Float64ObservableGauge
	grip         metric.Float64ObservableGauge
	interference metric.Float64ObservableGauge
	registration metric.Registration

	mu     sync.RWMutex
	latest vehicle.Snapshot
	seen   bool
}

// NewMetrics creates the instruments on m, or on the global meter provider
// when m is nil (a no-op unless one is installed).
func NewMetrics(m metric.Meter) (*Metrics, error) {
	if m == nil {
		m = meter()
	}
	mt := &Metrics{}

	var err error
	mt.ticks, err = m.Int64Counter(
		"vehicle.ticks",
		metric.WithDescription("Simulation ticks completed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}

	gauges := []struct {
		target      *metric.Float64ObservableGauge
		name        string
		description string
		unit        string
	}{
		{&mt.speed, "vehicle.speed", "Body speed", "m/s"},
		{&mt.rpm, "vehicle.engine.rpm", "Crank speed", "{rpm}"},
		{&mt.clutchSlip, "vehicle.clutch.slip", "Speed difference across the clutch", "rad/s"},
		{&mt.grip, "vehicle.wheel.grip", "Share of available tire grip in use", "1"},
		{&mt.interference, "vehicle.wheel.interference", "Regulator intervention", "%"},
	}
	observables := make([]metric.Observable, 0, len(gauges))
	for _, g := range gauges {
		*g.target, err = m.Float64ObservableGauge(g.name,
			metric.WithDescription(g.description),
			metric.WithUnit(g.unit),
		)
		if err != nil {
			return nil, fmt.Errorf("creating %s gauge: %w", g.name, err)
		}
		observables = append(observables, *g.target)
	}

	mt.registration, err = m.RegisterCallback(mt.collect, observables...)
	if err != nil {
		return nil, fmt.Errorf("registering gauge callback: %w", err)
	}
	return mt, nil
}

// Observe implements vehicle.Observer.
func (m *Metrics) Observe(s vehicle.Snapshot) {
	m.mu.Lock()
	m.latest = s
	m.seen = true
	m.mu.Unlock()

	m.ticks.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("gear", s.Gearbox.Label)))
}

func (m *Metrics) collect(_ context.Context, o metric.Observer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.seen {
		return nil
	}
	s := m.latest

	o.ObserveFloat64(m.speed, s.Speed)
	o.ObserveFloat64(m.rpm, s.Engine.RPM)
	o.ObserveFloat64(m.clutchSlip, s.Gearbox.ClutchSlip)
	for _, w := range s.Wheels {
		wheel := attribute.String("wheel", w.Name)
		o.ObserveFloat64(m.grip, w.GripLevel, metric.WithAttributes(wheel))
		o.ObserveFloat64(m.interference, w.TractionInterference,
			metric.WithAttributes(wheel, attribute.String("regulator", "tcs")))
		o.ObserveFloat64(m.interference, w.BrakeInterference,
			metric.WithAttributes(wheel, attribute.String("regulator", "abs")))
	}
	return nil
}

// Close detaches the gauge callback.
func (m *Metrics) Close() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}
