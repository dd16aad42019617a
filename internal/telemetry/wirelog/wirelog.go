// Package wirelog instruments raw connection bytes.
//
// A Policy decides whether a connection's reads and writes are dumped
// to the log; Wrap applies the policy to a net.Conn. The policy itself
// is plain data carried by the configuration snapshot, so it can be
// shared untouched by every connection.
package wirelog

import (
	"encoding/hex"
	"net"

	"github.com/tcpgate/tcpgate/internal/telemetry/logger"
	"github.com/tcpgate/tcpgate/pkg/buffer"
)

// DefaultMaxBytes bounds how much of a single read or write is dumped.
const DefaultMaxBytes = 256

// Policy controls wire-level byte logging.
type Policy struct {
	// Enabled turns byte dumping on. Dumps are written at debug level.
	Enabled bool
	// MaxBytes caps the dumped prefix of each read/write.
	// Zero means DefaultMaxBytes.
	MaxBytes int
}

// Default returns the process default policy: disabled.
func Default() *Policy {
	return &Policy{}
}

// Enabled returns an active policy with the given dump cap.
func Enabled(maxBytes int) *Policy {
	return &Policy{Enabled: true, MaxBytes: maxBytes}
}

// limit returns the effective per-operation dump cap.
func (p *Policy) limit() int {
	if p.MaxBytes > 0 {
		return p.MaxBytes
	}
	return DefaultMaxBytes
}

// Conn wraps a net.Conn and dumps traffic per the policy.
type Conn struct {
	net.Conn
	pol   *Policy
	log   logger.Logger
	alloc buffer.Allocator
}

// Wrap applies pol to c. When the policy is nil or disabled the
// original connection is returned untouched.
func Wrap(c net.Conn, pol *Policy, log logger.Logger, alloc buffer.Allocator) net.Conn {
	if pol == nil || !pol.Enabled {
		return c
	}
	if log == nil {
		log = logger.Default()
	}
	if alloc == nil {
		alloc = buffer.Default()
	}
	return &Conn{Conn: c, pol: pol, log: log, alloc: alloc}
}

func (c *Conn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	if n > 0 {
		c.dump("wire read", p[:n])
	}
	return n, err
}

func (c *Conn) Write(p []byte) (int, error) {
	n, err := c.Conn.Write(p)
	if n > 0 {
		c.dump("wire write", p[:n])
	}
	return n, err
}

func (c *Conn) dump(msg string, data []byte) {
	total := len(data)
	if limit := c.pol.limit(); total > limit {
		data = data[:limit]
	}

	bb := c.alloc.Acquire()
	defer c.alloc.Release(bb)

	d := hex.Dumper(bb)
	d.Write(data) //nolint:errcheck // ByteBuffer writes cannot fail
	d.Close()     //nolint:errcheck

	c.log.Debug(msg,
		"remote", c.Conn.RemoteAddr().String(),
		"bytes", total,
		"dump", bb.String(),
	)
}
