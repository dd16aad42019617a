package adminserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/tcpgate/tcpgate/internal/telemetry/logger"
	"github.com/tcpgate/tcpgate/internal/telemetry/metric"
)

// Config holds the admin server configuration.
type Config struct {
	// Addr is the listen address.
	Addr string

	// AuthToken guards /metrics and /version when non-empty.
	AuthToken string

	// Metrics is the registry exposed at /metrics.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger logger.Logger
}

// Server is the admin HTTP server.
type Server struct {
	httpServer *http.Server
	ln         net.Listener
	log        logger.Logger
}

// New creates an admin server.
func New(cfg *Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Start binds the listener and serves in a goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.log.Info("admin server started", "addr", ln.Addr().String())

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("admin server failed", "error", err)
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

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
