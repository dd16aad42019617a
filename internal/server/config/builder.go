package config

import (
	"crypto/tls"
	"time"

	"github.com/tcpgate/tcpgate/internal/telemetry/wirelog"
	"github.com/tcpgate/tcpgate/pkg/buffer"
)

// Builder accumulates server configuration during setup. It is a plain
// mutable aggregate with no internal synchronization: callers must not
// share a Builder across goroutines while mutating it. Snapshot freezes
// the current state; the Builder may then be mutated further or reused
// without affecting snapshots already taken.
type Builder struct {
	executor             Executor
	autoRead             bool
	backlog              int
	allocator            buffer.Allocator
	defaultTLS           *tls.Config
	idleTimeout          time.Duration
	gracefulCloseTimeout time.Duration
	optionEntries        []OptionEntry
	optionIndex          map[Option]int
	domains              *DomainMapping[*tls.Config]
	wireLog              *wirelog.Policy
}

// NewBuilder creates a Builder with the same defaults as NewSnapshot.
func NewBuilder(executor Executor, autoRead bool) *Builder {
	return &Builder{
		executor:             executor,
		autoRead:             autoRead,
		backlog:              DefaultBacklog,
		allocator:            buffer.Default(),
		gracefulCloseTimeout: DefaultGracefulCloseTimeout,
		optionIndex:          make(map[Option]int),
		wireLog:              wirelog.Default(),
	}
}

// SetBacklog sets the accept-queue length. Negative values clamp to 0.
func (b *Builder) SetBacklog(n int) *Builder {
	if n < 0 {
		n = 0
	}
	b.backlog = n
	return b
}

// SetAllocator sets the shared buffer allocator.
func (b *Builder) SetAllocator(a buffer.Allocator) *Builder {
	b.allocator = a
	return b
}

// SetDefaultTLS sets the TLS context used when no domain mapping is
// configured, or as the fallback for SNI-less clients.
func (b *Builder) SetDefaultTLS(cfg *tls.Config) *Builder {
	b.defaultTLS = cfg
	return b
}

// SetIdleTimeout sets the connection idle timeout; zero disables it.
// Negative values clamp to 0.
func (b *Builder) SetIdleTimeout(d time.Duration) *Builder {
	if d < 0 {
		d = 0
	}
	b.idleTimeout = d
	return b
}

// SetGracefulCloseTimeout sets the close drain timeout. Negative
// values clamp to 0.
func (b *Builder) SetGracefulCloseTimeout(d time.Duration) *Builder {
	if d < 0 {
		d = 0
	}
	b.gracefulCloseTimeout = d
	return b
}

// SetWireLog sets the wire-logging policy.
func (b *Builder) SetWireLog(p *wirelog.Policy) *Builder {
	b.wireLog = p
	return b
}

// SetOption sets a socket option, last write wins. A replaced key
// keeps its original position in the application order.
func (b *Builder) SetOption(key Option, value any) *Builder {
	if i, ok := b.optionIndex[key]; ok {
		b.optionEntries[i].Value = value
		return b
	}
	b.optionIndex[key] = len(b.optionEntries)
	b.optionEntries = append(b.optionEntries, OptionEntry{Key: key, Value: value})
	return b
}

// AddDomainCredential registers a TLS context for a hostname pattern.
// The first registration creates the domain mapping, seeding its
// default from the builder's current default TLS context; the mapping
// keeps that default from then on.
func (b *Builder) AddDomainCredential(pattern string, cfg *tls.Config) error {
	if b.domains == nil {
		if b.defaultTLS != nil {
			b.domains = NewDomainMappingWithDefault(b.defaultTLS)
		} else {
			b.domains = NewDomainMapping[*tls.Config]()
		}
	}
	return b.domains.Add(pattern, cfg)
}

// Domains exposes the builder's mutable domain mapping; nil until the
// first credential is registered.
func (b *Builder) Domains() *DomainMapping[*tls.Config] {
	return b.domains
}

// Snapshot freezes the current builder state into an immutable
// Snapshot. The copy is deep where the state is mutable (options,
// domain table) and shallow where collaborators are already immutable
// or shared by contract (executor, allocator, TLS contexts, policy).
func (b *Builder) Snapshot() *Snapshot {
	return newSnapshotFrom(b)
}
