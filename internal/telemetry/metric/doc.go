// Package metric provides Prometheus metrics for tcpgate.
//
// A Registry bundles every server metric with its backing
// prometheus.Registry, so tests and multiple server instances never
// collide on the global default registry. The admin endpoint exposes
// the registry at /metrics in Prometheus format.
package metric
