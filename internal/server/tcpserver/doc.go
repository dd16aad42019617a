// Package tcpserver implements the TCP front server.
//
// A Server accepts connections according to an immutable
// config.Snapshot: socket options are applied in registration order,
// wire logging and idle timeouts are installed when configured, and
// TLS credentials are selected per connection from the snapshot's
// domain mapping using the client's SNI name. Accepted connections are
// handed to a Handler on the snapshot's executor.
//
// When the snapshot disables auto-read the server installs no read
// deadlines; the handler owns all reads on the connection.
package tcpserver
