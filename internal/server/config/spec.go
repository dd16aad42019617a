package config

import "time"

// ServerConfig is the root file configuration for tcpgate.
type ServerConfig struct {
	Listener ListenerSection `koanf:"listener"`
	Socket   SocketSection   `koanf:"socket"`
	TLS      TLSSection      `koanf:"tls"`
	WireLog  WireLogSection  `koanf:"wirelog"`
	Admin    AdminSection    `koanf:"admin"`
	Log      LogSection      `koanf:"log"`
}

// ListenerSection configures the TCP listener and connection lifecycle.
type ListenerSection struct {
	Addr                 string        `koanf:"addr"`
	Backlog              int           `koanf:"backlog"`
	AutoRead             bool          `koanf:"auto_read"`
	IdleTimeout          time.Duration `koanf:"idle_timeout"`
	GracefulCloseTimeout time.Duration `koanf:"graceful_close_timeout"`

	// AcceptRateLimit caps accepted connections per second per source
	// IP. Zero disables limiting.
	AcceptRateLimit int `koanf:"accept_rate_limit"`
}

// SocketSection configures per-connection socket options. Options are
// applied in a fixed order: buffers first, then keep-alive, no-delay
// and linger.
type SocketSection struct {
	RecvBuffer      int           `koanf:"recv_buffer"`
	SendBuffer      int           `koanf:"send_buffer"`
	KeepAlive       bool          `koanf:"keep_alive"`
	KeepAlivePeriod time.Duration `koanf:"keep_alive_period"`
	NoDelay         bool          `koanf:"no_delay"`

	// Linger in seconds; negative leaves the platform default.
	Linger int `koanf:"linger"`
}

// TLSSection configures TLS termination.
type TLSSection struct {
	// CertFile/KeyFile are the default credential, used when a client
	// offers no SNI name or no domain entry matches.
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`

	// ClientCAFile enables mutual TLS against the given CA bundle.
	ClientCAFile string `koanf:"client_ca_file"`

	// MinVersion is "1.2" (default) or "1.3".
	MinVersion string `koanf:"min_version"`

	// Watch reloads credentials from disk when the files change.
	Watch bool `koanf:"watch"`

	// Domains map SNI hostname patterns to dedicated credentials.
	Domains []DomainCredential `koanf:"domains"`
}

// DomainCredential is one SNI pattern and its certificate pair.
type DomainCredential struct {
	// Pattern is an exact hostname or a "*.suffix" wildcard.
	Pattern  string `koanf:"pattern"`
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
}

// WireLogSection configures raw byte logging.
type WireLogSection struct {
	Enabled  bool `koanf:"enabled"`
	MaxBytes int  `koanf:"max_bytes"`
}

// AdminSection configures the admin HTTP endpoint (/metrics, /healthz).
type AdminSection struct {
	// Addr for the admin listener; empty disables it.
	Addr string `koanf:"addr"`

	// AuthToken guards the admin endpoints when non-empty.
	AuthToken string `koanf:"auth_token"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
