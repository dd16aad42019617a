// Package buildinfo exposes the version stamp baked into the tcpgate
// binary. Release builds set the variables through ldflags; a plain
// go build reports "dev". The admin server serves the stamp as JSON
// on /version.
//
//	go build -ldflags "-X github.com/tcpgate/tcpgate/internal/infra/buildinfo.Version=v1.2.0"
package buildinfo
