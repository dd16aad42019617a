package config

import (
	"crypto/tls"
	"fmt"

	"github.com/tcpgate/tcpgate/internal/infra/tlsroots"
	"github.com/tcpgate/tcpgate/internal/telemetry/wirelog"
)

// Build turns a verified file configuration into a Builder with all
// TLS credentials loaded. The returned stop function releases any
// certificate watchers started for hot reload; it is safe to call even
// when no watchers were started.
func Build(cfg *ServerConfig) (*Builder, func(), error) {
	b := NewBuilder(GoroutineExecutor(), cfg.Listener.AutoRead)
	b.SetBacklog(cfg.Listener.Backlog)
	b.SetIdleTimeout(cfg.Listener.IdleTimeout)
	b.SetGracefulCloseTimeout(cfg.Listener.GracefulCloseTimeout)

	applySocketOptions(b, &cfg.Socket)

	if cfg.WireLog.Enabled {
		b.SetWireLog(wirelog.Enabled(cfg.WireLog.MaxBytes))
	}

	stop, err := applyTLS(b, &cfg.TLS)
	if err != nil {
		return nil, nil, err
	}
	return b, stop, nil
}

// applySocketOptions registers socket options in a fixed order:
// buffer sizes first, so later options take effect on the resized
// socket, then keep-alive, no-delay and linger.
func applySocketOptions(b *Builder, s *SocketSection) {
	if s.RecvBuffer > 0 {
		b.SetOption(OptionRecvBuffer, s.RecvBuffer)
	}
	if s.SendBuffer > 0 {
		b.SetOption(OptionSendBuffer, s.SendBuffer)
	}
	if s.KeepAlive {
		b.SetOption(OptionKeepAlive, true)
		if s.KeepAlivePeriod > 0 {
			b.SetOption(OptionKeepAlivePeriod, s.KeepAlivePeriod)
		}
	}
	if s.NoDelay {
		b.SetOption(OptionNoDelay, true)
	}
	if s.Linger >= 0 {
		b.SetOption(OptionLinger, s.Linger)
	}
}

func applyTLS(b *Builder, t *TLSSection) (func(), error) {
	noop := func() {}
	if t.CertFile == "" && len(t.Domains) == 0 {
		return noop, nil
	}

	minVersion, err := tlsroots.ParseVersion(t.MinVersion)
	if err != nil {
		return nil, err
	}

	var clientCAs *tlsroots.Pool
	if t.ClientCAFile != "" {
		clientCAs = tlsroots.NewEmptyPool()
		if err := clientCAs.AddCertFile(t.ClientCAFile); err != nil {
			return nil, err
		}
	}

	var watchers []*tlsroots.Watcher
	stop := func() {
		for _, w := range watchers {
			w.Stop()
		}
	}

	load := func(certFile, keyFile string) (*tls.Config, error) {
		if !t.Watch {
			return tlsroots.ServerCredential(certFile, keyFile, minVersion, clientCAs)
		}
		w, err := tlsroots.NewWatcher(certFile, keyFile)
		if err != nil {
			return nil, err
		}
		w.StartAsync()
		watchers = append(watchers, w)
		return tlsroots.WatchedCredential(w, minVersion, clientCAs), nil
	}

	if t.CertFile != "" {
		def, err := load(t.CertFile, t.KeyFile)
		if err != nil {
			stop()
			return nil, fmt.Errorf("default credential: %w", err)
		}
		b.SetDefaultTLS(def)
	}

	for _, d := range t.Domains {
		ctx, err := load(d.CertFile, d.KeyFile)
		if err != nil {
			stop()
			return nil, fmt.Errorf("credential for %s: %w", d.Pattern, err)
		}
		if err := b.AddDomainCredential(d.Pattern, ctx); err != nil {
			stop()
			return nil, err
		}
	}

	return stop, nil
}
