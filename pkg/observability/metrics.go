// Package observability bridges engine lifecycle hooks to Prometheus.
package observability

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hsmkit/hsm/pkg/domain"
)

// Metrics collects engine activity through lifecycle hooks.
type Metrics struct {
	// EventName maps event identifiers to label values. Defaults to the
	// identifier's own string form; set it from a chart for readable labels.
	EventName func(domain.EventID) string

	stateEntries *prometheus.CounterVec
	stateExits   *prometheus.CounterVec
	events       *prometheus.CounterVec
	activeDepth  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventName: func(id domain.EventID) string { return id.String() },
		stateEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hsm_state_entries_total",
				Help: "Total number of state entries, per state path",
			},
			[]string{"state"},
		),
		stateExits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hsm_state_exits_total",
				Help: "Total number of state exits, per state path",
			},
			[]string{"state"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hsm_events_total",
				Help: "Total number of dispatched events, per event and outcome",
			},
			[]string{"event", "outcome"},
		),
		activeDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hsm_active_depth",
				Help: "Depth of the active leaf state (0 while halted)",
			},
		),
	}
	reg.MustRegister(m.stateEntries, m.stateExits, m.events, m.activeDepth)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors. Compose with other
// hooks by calling these from your own.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) {
			m.stateEntries.WithLabelValues(e.State).Inc()
			m.activeDepth.Set(float64(pathDepth(e.State)))
		},
		OnStateExit: func(_ context.Context, e *domain.StateEvent) {
			m.stateExits.WithLabelValues(e.State).Inc()
			m.activeDepth.Set(float64(pathDepth(e.State) - 1))
		},
		OnEventHandled: func(_ context.Context, e *domain.DispatchEvent) {
			m.events.WithLabelValues(m.EventName(e.Event), "handled").Inc()
			m.activeDepth.Set(float64(pathDepth(e.Active)))
		},
		OnEventDropped: func(_ context.Context, e *domain.DispatchEvent) {
			m.events.WithLabelValues(m.EventName(e.Event), "dropped").Inc()
		},
	}
}

func pathDepth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, "/") + 1
}
