package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts session client activity. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	retries   prometheus.Counter
	coalesced prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oversight",
			Subsystem: "session",
			Name:      "requests_total",
			Help:      "API requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oversight",
			Subsystem: "session",
			Name:      "refreshes_total",
			Help:      "Token refresh calls by result.",
		}, []string{"result"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "oversight",
			Subsystem: "session",
			Name:      "retries_total",
			Help:      "Requests replayed after a successful refresh.",
		}),
		coalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "oversight",
			Subsystem: "session",
			Name:      "refreshes_coalesced_total",
			Help:      "Refresh attempts served by another request's refresh.",
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.requests, m.refreshes, m.retries, m.coalesced} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) request(kind, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) refresh(result string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) retry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Metrics) coalesce() {
	if m == nil {
		return
	}
	m.coalesced.Inc()
}
