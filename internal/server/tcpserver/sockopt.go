package tcpserver

import (
	"net"
	"time"

	"github.com/tcpgate/tcpgate/internal/server/config"
	"github.com/tcpgate/tcpgate/internal/telemetry/logger"
)

// tcpConn is the subset of *net.TCPConn used for socket options,
// extracted so tests can substitute a recorder.
type tcpConn interface {
	SetKeepAlive(bool) error
	SetKeepAlivePeriod(time.Duration) error
	SetNoDelay(bool) error
	SetReadBuffer(int) error
	SetWriteBuffer(int) error
	SetLinger(int) error
}

// applySocketOptions applies the snapshot's socket options to a
// connection in their registration order. Options that do not apply to
// an accepted connection, or carry a value of the wrong type, are
// logged and skipped.
func applySocketOptions(c net.Conn, opts *config.OptionSet, log logger.Logger) {
	if opts == nil || opts.Len() == 0 {
		return
	}
	tc, ok := c.(tcpConn)
	if !ok {
		log.Debug("socket options skipped for non-TCP connection")
		return
	}

	for _, e := range opts.Entries() {
		if err := applyOption(tc, e); err != nil {
			log.Warn("socket option not applied", "option", string(e.Key), "error", err)
		}
	}
}

func applyOption(tc tcpConn, e config.OptionEntry) error {
	switch e.Key {
	case config.OptionKeepAlive:
		v, ok := e.Value.(bool)
		if !ok {
			return errBadValue(e)
		}
		return tc.SetKeepAlive(v)
	case config.OptionKeepAlivePeriod:
		v, ok := e.Value.(time.Duration)
		if !ok {
			return errBadValue(e)
		}
		return tc.SetKeepAlivePeriod(v)
	case config.OptionNoDelay:
		v, ok := e.Value.(bool)
		if !ok {
			return errBadValue(e)
		}
		return tc.SetNoDelay(v)
	case config.OptionRecvBuffer:
		v, ok := e.Value.(int)
		if !ok {
			return errBadValue(e)
		}
		return tc.SetReadBuffer(v)
	case config.OptionSendBuffer:
		v, ok := e.Value.(int)
		if !ok {
			return errBadValue(e)
		}
		return tc.SetWriteBuffer(v)
	case config.OptionLinger:
		v, ok := e.Value.(int)
		if !ok {
			return errBadValue(e)
		}
		return tc.SetLinger(v)
	case config.OptionReusePort, config.OptionFastOpen, config.OptionDeferAccept:
		// Listen-time options; nothing to apply per connection.
		return nil
	default:
		return &unknownOptionError{key: e.Key}
	}
}

type unknownOptionError struct {
	key config.Option
}

func (e *unknownOptionError) Error() string {
	return "unknown socket option " + string(e.key)
}

type badValueError struct {
	key config.Option
}

func (e *badValueError) Error() string {
	return "unexpected value type for socket option " + string(e.key)
}

func errBadValue(e config.OptionEntry) error {
	return &badValueError{key: e.Key}
}
