package rxepic

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters a [Middleware] updates.
// A nil *Metrics is valid and records nothing.
//
// One Metrics value may be shared by several middlewares
// that should be counted together.
type Metrics struct {
	Transitions        prometheus.Counter
	DroppedTransitions prometheus.Counter
	Patches            prometheus.Counter
	Updates            prometheus.Counter
	EpicErrors         prometheus.Counter
}

// NewMetrics creates the middleware counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Transitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rxepic",
			Name:      "transitions_total",
			Help:      "State transitions published to epics.",
		}),
		DroppedTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rxepic",
			Name:      "dropped_transitions_total",
			Help:      "State transitions dropped for carrying no patches.",
		}),
		Patches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rxepic",
			Name:      "patches_total",
			Help:      "Patches published to epics.",
		}),
		Updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rxepic",
			Name:      "updates_total",
			Help:      "Update callbacks applied to the state container.",
		}),
		EpicErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rxepic",
			Name:      "epic_errors_total",
			Help:      "Errors delivered by root epic streams.",
		}),
	}

	var err error
	for _, c := range []prometheus.Collector{
		m.Transitions, m.DroppedTransitions, m.Patches, m.Updates, m.EpicErrors,
	} {
		err = errors.Join(err, reg.Register(c))
	}
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) transition(patches int) {
	if m == nil {
		return
	}
	m.Transitions.Inc()
	m.Patches.Add(float64(patches))
}

func (m *Metrics) droppedTransition() {
	if m == nil {
		return
	}
	m.DroppedTransitions.Inc()
}

func (m *Metrics) update() {
	if m == nil {
		return
	}
	m.Updates.Inc()
}

func (m *Metrics) epicError() {
	if m == nil {
		return
	}
	m.EpicErrors.Inc()
}
