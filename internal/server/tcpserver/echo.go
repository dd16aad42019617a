package tcpserver

import (
	"context"
	"io"
	"net"
)

// EchoHandler returns a Handler that writes every byte it reads back
// to the peer. It exercises the full connection pipeline (TLS, wire
// logging, idle timeouts) without any protocol semantics.
func EchoHandler() Handler {
	return HandlerFunc(func(ctx context.Context, c net.Conn) {
		defer c.Close()
		_, _ = io.Copy(c, c)
	})
}
