package metric

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.ConnectionsAccepted == nil || r.ConnectionsActive == nil {
		t.Fatal("NewRegistry() left metrics unregistered")
	}
}

func TestRegistry_Isolated(t *testing.T) {
	// Two registries must not collide on registration.
	a := NewRegistry()
	b := NewRegistry()

	a.ConnectionsAccepted.Inc()
	a.ConnectionsAccepted.Inc()
	b.ConnectionsAccepted.Inc()

	if got := counterValue(t, a, "tcpgate_connections_accepted_total"); got != 2 {
		t.Errorf("registry a counter = %v, want 2", got)
	}
	if got := counterValue(t, b, "tcpgate_connections_accepted_total"); got != 1 {
		t.Errorf("registry b counter = %v, want 1", got)
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.ConnectionsAccepted.Inc()
	r.ConnectionsActive.Set(3)
	r.ConnectionsRejected.WithLabelValues(ReasonRateLimited).Inc()
	r.SNIResolutions.WithLabelValues(OutcomeMatched).Inc()
	r.HandshakeFailures.Inc()
	r.ConnectionDuration.Observe(0.25)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"tcpgate_connections_accepted_total 1",
		"tcpgate_connections_active 3",
		`tcpgate_connections_rejected_total{reason="rate_limited"} 1`,
		`tcpgate_sni_resolutions_total{outcome="matched"} 1`,
		"tcpgate_tls_handshake_failures_total 1",
		"tcpgate_connection_duration_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func counterValue(t *testing.T, r *Registry, name string) float64 {
	t.Helper()

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			for _, m := range mf.GetMetric() {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %q not found", name)
	return 0
}
