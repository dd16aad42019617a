package tcpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tcpgate/tcpgate/internal/server/config"
	"github.com/tcpgate/tcpgate/internal/telemetry/logger"
	"github.com/tcpgate/tcpgate/internal/telemetry/metric"
	"github.com/tcpgate/tcpgate/internal/telemetry/wirelog"
	"github.com/tcpgate/tcpgate/pkg/cmap"
)

// Handler serves one accepted connection. Serve must close the
// connection before returning. The context is canceled when the
// server shuts down.
type Handler interface {
	Serve(ctx context.Context, conn net.Conn)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, conn net.Conn)

func (f HandlerFunc) Serve(ctx context.Context, conn net.Conn) { f(ctx, conn) }

// Server accepts TCP connections and dispatches them to a Handler.
type Server struct {
	addr    string
	snap    *config.Snapshot
	handler Handler
	log     logger.Logger
	metrics *metric.Registry
	limiter *limiterRegistry

	ln      net.Listener
	conns   *cmap.Map[string, net.Conn]
	running atomic.Bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithAcceptRateLimit caps accepted connections per second per source
// IP. Zero or negative disables limiting.
func WithAcceptRateLimit(perSecond int) Option {
	return func(s *Server) {
		s.limiter = newLimiterRegistry(perSecond)
	}
}

// New creates a server for the given listen address and configuration
// snapshot.
func New(addr string, snap *config.Snapshot, handler Handler, opts ...Option) *Server {
	s := &Server{
		addr:    addr,
		snap:    snap,
		handler: handler,
		log:     logger.Default(),
		conns:   cmap.New[string, net.Conn](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the listener and begins accepting in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.running.Store(true)

	ctx, s.cancel = context.WithCancel(ctx)

	s.log.Info("server started", "addr", ln.Addr().String(), "tls", s.tlsEnabled())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.log.Error("accept loop failed", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ConnCount returns the number of open connections.
func (s *Server) ConnCount() int {
	return s.conns.Count()
}

// Shutdown stops accepting and waits for open connections to finish,
// bounded by the snapshot's graceful close timeout and the given
// context. Connections still open after the timeout are closed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	grace := time.NewTimer(s.snap.GracefulCloseTimeout())
	defer grace.Stop()

	select {
	case <-done:
	case <-grace.C:
		s.closeAll()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	case <-ctx.Done():
		s.closeAll()
		return ctx.Err()
	}

	s.log.Info("server stopped", "addr", s.addr)
	return firstErr
}

func (s *Server) closeAll() {
	s.conns.Range(func(id string, c net.Conn) bool {
		s.log.Debug("forcing connection closed", "conn_id", id, "remote", c.RemoteAddr())
		_ = c.Close()
		return true
	})
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if s.metrics != nil {
				s.metrics.ConnectionsRejected.WithLabelValues(metric.ReasonAcceptError).Inc()
			}
			return err
		}

		if s.limiter != nil && !s.limiter.Allow(remoteIP(c)) {
			s.log.Warn("connection rejected by rate limit", "remote", c.RemoteAddr())
			if s.metrics != nil {
				s.metrics.ConnectionsRejected.WithLabelValues(metric.ReasonRateLimited).Inc()
			}
			_ = c.Close()
			continue
		}

		if s.metrics != nil {
			s.metrics.ConnectionsAccepted.Inc()
		}

		id := ulid.Make().String()
		s.wg.Add(1)
		s.snap.Executor().Go(func() {
			defer s.wg.Done()
			s.serveConn(ctx, id, c)
		})
	}
}

func (s *Server) serveConn(ctx context.Context, id string, raw net.Conn) {
	start := time.Now()
	log := s.log.With("conn_id", id, "remote", raw.RemoteAddr().String())

	applySocketOptions(raw, s.snap.Options(), log)

	conn := wirelog.Wrap(raw, s.snap.WireLog(), log, s.snap.Allocator())

	if tc := s.clientTLSConfig(); tc != nil {
		tlsConn := tls.Server(conn, tc)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			log.Debug("tls handshake failed", "error", err)
			if s.metrics != nil {
				s.metrics.HandshakeFailures.Inc()
			}
			_ = tlsConn.Close()
			return
		}
		log.Debug("tls handshake complete", "server_name", tlsConn.ConnectionState().ServerName)
		conn = tlsConn
	}

	if s.snap.AutoRead() && s.snap.IdleTimeout() > 0 {
		conn = newIdleConn(conn, s.snap.IdleTimeout())
	}

	s.conns.Set(id, conn)
	if s.metrics != nil {
		s.metrics.ConnectionsActive.Inc()
	}
	log.Debug("connection open")

	defer func() {
		s.conns.Delete(id)
		if s.metrics != nil {
			s.metrics.ConnectionsActive.Dec()
			s.metrics.ConnectionDuration.Observe(time.Since(start).Seconds())
		}
		log.Debug("connection closed", "duration", time.Since(start))
	}()

	s.handler.Serve(logger.WithConnID(ctx, id), conn)
}

func (s *Server) tlsEnabled() bool {
	return s.snap.DefaultTLS() != nil || s.snap.Domains() != nil
}

func remoteIP(c net.Conn) string {
	host, _, err := net.SplitHostPort(c.RemoteAddr().String())
	if err != nil {
		return c.RemoteAddr().String()
	}
	return host
}
