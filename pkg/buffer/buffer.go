// Package buffer provides pooled byte buffer allocation.
//
// It wraps valyala/bytebufferpool behind a small Allocator interface so
// that components holding an allocator handle (the server configuration
// snapshot, connection loops, the wire logger) stay decoupled from the
// pooling implementation.
package buffer

import "github.com/valyala/bytebufferpool"

// Allocator hands out reusable byte buffers.
//
// Implementations must be safe for concurrent use; a single Allocator is
// shared by every connection of a server.
type Allocator interface {
	// Acquire returns an empty buffer ready for use.
	Acquire() *bytebufferpool.ByteBuffer

	// Release returns a buffer to the allocator. The buffer must not be
	// used after release.
	Release(b *bytebufferpool.ByteBuffer)
}

// pooled is the bytebufferpool-backed Allocator.
type pooled struct {
	pool *bytebufferpool.Pool
}

// NewPooled creates an Allocator backed by its own buffer pool.
func NewPooled() Allocator {
	return &pooled{pool: new(bytebufferpool.Pool)}
}

func (p *pooled) Acquire() *bytebufferpool.ByteBuffer {
	return p.pool.Get()
}

func (p *pooled) Release(b *bytebufferpool.ByteBuffer) {
	p.pool.Put(b)
}

// defaultAllocator is the process-wide pool used when no allocator is
// configured explicitly.
var defaultAllocator = NewPooled()

// Default returns the process-wide allocator.
func Default() Allocator {
	return defaultAllocator
}
