package metrics

import (
	"github.com/ClipFinance/netguard/common/types"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "netguard"

// Collector groups the guard's Prometheus collectors.
// A nil *Collector is valid and records nothing.
type Collector struct {
	outcomes    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	requests    *prometheus.CounterVec
}

// NewCollector creates the collectors and registers them on reg.
//
// Parameters:
// - reg: the registerer, prometheus.DefaultRegisterer in production.
//
// Returns:
// - *Collector: the collector set.
// - error: an error if registration fails.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Network guard outcomes by kind and failure reason.",
		}, []string{"kind", "reason"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Network guard state machine transitions by entered state.",
		}, []string{"state"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Wallet provider requests by method and status.",
		}, []string{"method", "status"}),
	}

	for _, collector := range []prometheus.Collector{c.outcomes, c.transitions, c.requests} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveOutcome counts a terminal guard outcome.
func (c *Collector) ObserveOutcome(o types.SwitchOutcome) {
	if c == nil {
		return
	}
	c.outcomes.WithLabelValues(string(o.Kind), string(o.Reason)).Inc()
}

// ObserveTransition counts entering a state.
func (c *Collector) ObserveTransition(s types.GuardState) {
	if c == nil {
		return
	}
	c.transitions.WithLabelValues(string(s)).Inc()
}

// ObserveRequest counts a provider request.
func (c *Collector) ObserveRequest(method string, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.requests.WithLabelValues(method, status).Inc()
}
