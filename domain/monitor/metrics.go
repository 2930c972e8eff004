package monitor

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments polling, stale discards and operator actions. All methods
// are nil-safe so components can run without instrumentation.
type Metrics struct {
	PollsOK        atomic.Uint64
	PollsFailed    atomic.Uint64
	StaleDiscarded atomic.Uint64

	polls    *prometheus.CounterVec
	stale    *prometheus.CounterVec
	actions  *prometheus.CounterVec
	registry *prometheus.Registry
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.polls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dualcam_polls_total",
		Help: "Poll task executions by task and outcome",
	}, []string{"task", "outcome"})
	m.stale = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dualcam_stale_responses_total",
		Help: "Responses discarded because a newer one was already applied",
	}, []string{"kind"})
	m.actions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dualcam_actions_total",
		Help: "Operator actions by kind and outcome",
	}, []string{"kind", "outcome"})
	m.registry.MustRegister(m.polls, m.stale, m.actions)
	return m
}

// WatchStore exposes the store's headline values as gauges.
func (m *Metrics) WatchStore(s *Store) {
	if m == nil || s == nil {
		return
	}
	for _, id := range CameraIDs {
		id := id
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "dualcam_camera_connected",
			Help:        "1 while the camera slot reports connected",
			ConstLabels: prometheus.Labels{"camera": string(id)},
		}, func() float64 { return s.Get().Number(ConnectedField(id)) }))
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "dualcam_segmentation_area",
			Help:        "Last reported segmentation area in pixels",
			ConstLabels: prometheus.Labels{"camera": string(id)},
		}, func() float64 { return s.Get().Number(AreaField(id)) }))
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dualcam_current_product",
		Help: "Current segmentation area product",
	}, func() float64 { return s.Get().Stats.CurrentProduct }))
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dualcam_pending_alarms",
		Help: "Pending alarms reported by the alarm list",
	}, func() float64 { return s.Get().Alarms.TotalPending }))
}

// ObservePoll records one poll task execution.
func (m *Metrics) ObservePoll(task string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		m.PollsFailed.Add(1)
	} else {
		m.PollsOK.Add(1)
	}
	m.polls.WithLabelValues(task, outcome).Inc()
}

// ObserveStale records a discarded out-of-order response.
func (m *Metrics) ObserveStale(kind DataKind) {
	if m == nil {
		return
	}
	m.StaleDiscarded.Add(1)
	m.stale.WithLabelValues(kind.String()).Inc()
}

// ObserveAction records the outcome of an operator action.
func (m *Metrics) ObserveAction(kind, outcome string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(kind, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
