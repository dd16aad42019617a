package config

import "github.com/tcpgate/tcpgate/internal/telemetry/logger"

// Sanitize returns a copy of the config with secrets masked, for
// logging the effective configuration at startup.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	if sanitized.Admin.AuthToken != "" {
		sanitized.Admin.AuthToken = logger.MaskSecret(sanitized.Admin.AuthToken)
	}

	return &sanitized
}
