// Package adminserver provides the admin HTTP endpoint.
//
// It serves operational routes only: /metrics in Prometheus format,
// /healthz for liveness checks and /version for build information.
// When an auth token is configured all routes except /healthz require
// a matching bearer token.
package adminserver
