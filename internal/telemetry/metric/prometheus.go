package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tcpgate"

// Registry holds all server metrics.
type Registry struct {
	reg *prometheus.Registry

	// Connection lifecycle.
	ConnectionsAccepted prometheus.Counter
	ConnectionsActive   prometheus.Gauge
	ConnectionsRejected *prometheus.CounterVec
	ConnectionDuration  prometheus.Histogram

	// TLS.
	HandshakeFailures prometheus.Counter
	SNIResolutions    *prometheus.CounterVec
}

// Rejection reasons for ConnectionsRejected.
const (
	ReasonRateLimited = "rate_limited"
	ReasonAcceptError = "accept_error"
)

// SNI resolution outcomes for SNIResolutions.
const (
	OutcomeMatched = "matched"
	OutcomeDefault = "default"
	OutcomeError   = "error"
)

// NewRegistry creates a metrics registry with all server metrics
// registered, plus the standard Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		reg: reg,
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_accepted_total",
			Help:      "Total number of accepted TCP connections.",
		}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of currently open connections.",
		}),
		ConnectionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_rejected_total",
			Help:      "Total number of rejected connections by reason.",
		}, []string{"reason"}),
		ConnectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "connection_duration_seconds",
			Help:      "Connection lifetime from accept to close.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		HandshakeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tls_handshake_failures_total",
			Help:      "Total number of failed TLS handshakes.",
		}),
		SNIResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sni_resolutions_total",
			Help:      "Total number of SNI credential resolutions by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		r.ConnectionsAccepted,
		r.ConnectionsActive,
		r.ConnectionsRejected,
		r.ConnectionDuration,
		r.HandshakeFailures,
		r.SNIResolutions,
	)
	return r
}

// Handler returns the HTTP handler serving this registry in
// Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
