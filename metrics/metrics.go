// Package metrics exposes the tracker's own instrumentation in the
// Prometheus format. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "server_tracker"

type Metrics struct {
	registry *prometheus.Registry

	fetchAttempts *prometheus.CounterVec
	online        *prometheus.GaugeVec
	deliveries    *prometheus.CounterVec
	cycles        prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_attempts_total",
				Help:      "Status API attempts by host and outcome.",
			},
			[]string{"host", "outcome"},
		),
		online: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "online_players",
				Help:      "Last recorded online player count.",
			},
			[]string{"host"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_deliveries_total",
				Help:      "Daily report deliveries by host and result.",
			},
			[]string{"host", "result"},
		),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cycles_total",
			Help:      "Completed report cycles, each followed by a store reset.",
		}),
	}

	m.registry.MustRegister(m.fetchAttempts, m.online, m.deliveries, m.cycles)
	return m
}

func (m *Metrics) ObserveAttempt(host, outcome string) {
	if m == nil {
		return
	}
	m.fetchAttempts.WithLabelValues(host, outcome).Inc()
}

func (m *Metrics) SetOnline(host string, value int) {
	if m == nil {
		return
	}
	m.online.WithLabelValues(host).Set(float64(value))
}

func (m *Metrics) ObserveDelivery(host, result string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(host, result).Inc()
}

func (m *Metrics) ObserveCycle() {
	if m == nil {
		return
	}
	m.cycles.Inc()
}

// Registry returns the underlying registry, nil for a nil receiver.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
