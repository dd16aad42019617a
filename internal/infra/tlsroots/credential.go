package tlsroots

import (
	"crypto/tls"
	"fmt"
)

// ParseVersion maps a config string to a TLS version constant.
// The empty string defaults to TLS 1.2.
func ParseVersion(s string) (uint16, error) {
	switch s {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("tlsroots: unsupported TLS version %q", s)
	}
}

// ServerCredential loads a certificate pair from disk into a serving
// TLS context. When clientCAs is non-nil the context also requires and
// verifies client certificates against that pool.
func ServerCredential(certFile, keyFile string, minVersion uint16, clientCAs *Pool) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: load key pair: %w", err)
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
	}
	applyClientCAs(cfg, clientCAs)
	return cfg, nil
}

// WatchedCredential builds a serving TLS context that always presents
// the watcher's current certificate, so credentials rotated on disk
// take effect without a restart.
func WatchedCredential(w *Watcher, minVersion uint16, clientCAs *Pool) *tls.Config {
	cfg := &tls.Config{
		GetCertificate: w.GetCertificate,
		MinVersion:     minVersion,
	}
	applyClientCAs(cfg, clientCAs)
	return cfg
}

func applyClientCAs(cfg *tls.Config, clientCAs *Pool) {
	if clientCAs == nil {
		return
	}
	cfg.ClientCAs = clientCAs.Pool()
	cfg.ClientAuth = tls.RequireAndVerifyClientCert
}
