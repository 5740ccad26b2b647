package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ledlink"

// Metrics holds the bridge's prometheus collectors on a private registry
type Metrics struct {
	Registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	sessions    prometheus.Gauge
}

// NewMetrics creates and registers the bridge collectors
func NewMetrics(version string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())

	newInfoGauge(registry, version).Set(1)

	m := &Metrics{
		Registry: registry,
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "bridge",
			Name:      "invocations_total",
			Help:      "Websocket invocations by command and outcome.",
		}, []string{"cmd", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "bridge",
			Name:      "invoke_duration_seconds",
			Help:      "Time taken to complete an invocation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"cmd"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "bridge",
			Name:      "sessions",
			Help:      "Open websocket sessions.",
		}),
	}
	registry.MustRegister(m.invocations, m.latency, m.sessions)
	return m
}

// newInfoGauge creates and registers a gauge carrying build metadata
func newInfoGauge(registry *prometheus.Registry, version string) prometheus.Gauge {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "bridge",
		Name:        "info",
		Help:        "Metadata about the bridge.",
		ConstLabels: prometheus.Labels{"version": version},
	})
	registry.MustRegister(gauge)
	return gauge
}

// observe records one finished invocation
func (m *Metrics) observe(cmd string, err error, seconds float64) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.invocations.WithLabelValues(cmd, outcome).Inc()
	m.latency.WithLabelValues(cmd).Observe(seconds)
}
