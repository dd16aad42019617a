package tcpserver

import (
	"crypto/tls"
	"errors"

	"github.com/tcpgate/tcpgate/internal/server/config"
	"github.com/tcpgate/tcpgate/internal/telemetry/metric"
)

// clientTLSConfig returns the tls.Config used for incoming
// connections, or nil when the snapshot carries no credentials. With a
// domain mapping present, the effective credential is selected per
// handshake from the client's SNI name.
func (s *Server) clientTLSConfig() *tls.Config {
	base := s.snap.DefaultTLS()
	domains := s.snap.Domains()
	if domains == nil {
		return base
	}

	return &tls.Config{
		GetConfigForClient: func(hello *tls.ClientHelloInfo) (*tls.Config, error) {
			return s.resolveCredential(domains, base, hello.ServerName)
		},
	}
}

func (s *Server) resolveCredential(domains *config.DomainMapping[*tls.Config], base *tls.Config, serverName string) (*tls.Config, error) {
	if serverName == "" {
		if def, ok := domains.Default(); ok && def != nil {
			s.countSNI(metric.OutcomeDefault)
			return def, nil
		}
		if base != nil {
			s.countSNI(metric.OutcomeDefault)
			return base, nil
		}
		s.countSNI(metric.OutcomeError)
		return nil, errors.New("tcpserver: no SNI name and no default credential")
	}

	cfg, err := domains.Resolve(serverName)
	if err != nil {
		if errors.Is(err, config.ErrNoCredential) && base != nil {
			s.countSNI(metric.OutcomeDefault)
			return base, nil
		}
		s.log.Debug("sni resolution failed", "server_name", serverName, "error", err)
		s.countSNI(metric.OutcomeError)
		return nil, err
	}

	if def, ok := domains.Default(); ok && cfg == def {
		s.countSNI(metric.OutcomeDefault)
	} else {
		s.countSNI(metric.OutcomeMatched)
	}
	return cfg, nil
}

func (s *Server) countSNI(outcome string) {
	if s.metrics != nil {
		s.metrics.SNIResolutions.WithLabelValues(outcome).Inc()
	}
}
