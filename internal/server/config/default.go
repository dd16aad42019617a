package config

// Default configuration values.
const (
	DefaultListenAddr = "127.0.0.1:5440"
	DefaultAdminAddr  = "127.0.0.1:5441"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default file configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Listener: ListenerSection{
			Addr:                 DefaultListenAddr,
			Backlog:              DefaultBacklog,
			AutoRead:             true,
			GracefulCloseTimeout: DefaultGracefulCloseTimeout,
		},
		Socket: SocketSection{
			KeepAlive: true,
			NoDelay:   true,
			Linger:    -1,
		},
		TLS: TLSSection{
			MinVersion: "1.2",
		},
		Admin: AdminSection{
			Addr: DefaultAdminAddr,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
