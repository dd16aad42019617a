// Package config implements the tcpgate server configuration layer.
//
// Configuration is accumulated on a mutable Builder during server setup
// and frozen into an immutable Snapshot at server start. The Snapshot is
// shared, without locks, by every connection for the lifetime of the
// process; the Builder is never touched by more than one goroutine and
// may be reused to produce further snapshots.
//
// The package also defines ServerConfig, the koanf-tagged file
// representation loaded by confloader, and Build, which turns a verified
// ServerConfig into a Builder with all TLS credentials resolved.
package config
