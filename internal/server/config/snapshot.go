package config

import (
	"crypto/tls"
	"syscall"
	"time"

	"github.com/tcpgate/tcpgate/internal/telemetry/wirelog"
	"github.com/tcpgate/tcpgate/pkg/buffer"
)

// Defaults applied by NewSnapshot and NewBuilder.
const (
	// DefaultBacklog is the platform's maximum accept-queue length.
	DefaultBacklog = syscall.SOMAXCONN

	// DefaultGracefulCloseTimeout bounds how long close waits for
	// active connections to drain before forcing them shut.
	DefaultGracefulCloseTimeout = 10 * time.Second
)

// Snapshot is the immutable, read-only view of a server configuration.
//
// A Snapshot is produced once, at server start, either directly via
// NewSnapshot or by copying a Builder. No field ever changes afterwards
// and every contained collection is rebuilt at construction time, so a
// single Snapshot is safe for unsynchronized concurrent reads from any
// number of connection goroutines. None of its accessors block.
type Snapshot struct {
	autoRead             bool
	backlog              int
	executor             Executor
	allocator            buffer.Allocator
	defaultTLS           *tls.Config
	idleTimeout          time.Duration
	gracefulCloseTimeout time.Duration
	options              *OptionSet
	domains              *DomainMapping[*tls.Config]
	wireLog              *wirelog.Policy
}

// NewSnapshot creates a snapshot with the minimal required fields and
// defaults for everything else: backlog DefaultBacklog, the process
// allocator, a 10s graceful close timeout, no TLS, no domain mapping,
// and the process default (disabled) wire-log policy.
func NewSnapshot(executor Executor, autoRead bool) *Snapshot {
	return &Snapshot{
		autoRead:             autoRead,
		backlog:              DefaultBacklog,
		executor:             executor,
		allocator:            buffer.Default(),
		gracefulCloseTimeout: DefaultGracefulCloseTimeout,
		options:              newOptionSet(nil),
		wireLog:              wirelog.Default(),
	}
}

// newSnapshotFrom copies a Builder. Scalars are copied by value, the
// option set is rebuilt in insertion order, and the domain table is
// deep-copied pair by pair so the Builder can keep mutating (or be
// reused for another server) without reaching this snapshot.
func newSnapshotFrom(b *Builder) *Snapshot {
	s := &Snapshot{
		autoRead:             b.autoRead,
		backlog:              b.backlog,
		executor:             b.executor,
		allocator:            b.allocator,
		defaultTLS:           b.defaultTLS,
		idleTimeout:          b.idleTimeout,
		gracefulCloseTimeout: b.gracefulCloseTimeout,
		options:              newOptionSet(b.optionEntries),
		wireLog:              b.wireLog,
	}
	if b.domains != nil {
		s.domains = b.domains.clone()
	}
	return s
}

// AutoRead reports whether accepted connections start reading
// immediately.
func (s *Snapshot) AutoRead() bool {
	return s.autoRead
}

// Backlog returns the maximum queue length for pending connections.
func (s *Snapshot) Backlog() int {
	return s.backlog
}

// Executor returns the I/O executor connections are submitted to.
func (s *Snapshot) Executor() Executor {
	return s.executor
}

// Allocator returns the shared buffer allocator.
func (s *Snapshot) Allocator() buffer.Allocator {
	return s.allocator
}

// DefaultTLS returns the TLS context used when no domain mapping is
// configured, or nil for a plaintext server.
func (s *Snapshot) DefaultTLS() *tls.Config {
	return s.defaultTLS
}

// IdleTimeout returns the connection idle timeout; zero disables it.
func (s *Snapshot) IdleTimeout() time.Duration {
	return s.idleTimeout
}

// GracefulCloseTimeout returns how long close waits for active
// connections before forcing them shut.
func (s *Snapshot) GracefulCloseTimeout() time.Duration {
	return s.gracefulCloseTimeout
}

// Options returns the socket options applied to each accepted
// connection, in insertion order.
func (s *Snapshot) Options() *OptionSet {
	return s.options
}

// Domains returns the SNI credential mapping, or nil if none is
// configured.
func (s *Snapshot) Domains() *DomainMapping[*tls.Config] {
	return s.domains
}

// WireLog returns the wire-logging policy, or nil when unset.
func (s *Snapshot) WireLog() *wirelog.Policy {
	return s.wireLog
}
