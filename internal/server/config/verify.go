package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Verify validates the file configuration. Domain patterns are checked
// here, before any builder or snapshot exists, so a malformed pattern
// never reaches a running server.
func Verify(cfg *ServerConfig) error {
	if err := verifyListener(&cfg.Listener); err != nil {
		return err
	}
	if err := verifyTLS(&cfg.TLS); err != nil {
		return err
	}
	return nil
}

func verifyListener(cfg *ListenerSection) error {
	if cfg.Addr == "" {
		return errors.New("listener.addr is required")
	}
	if cfg.Backlog < 0 {
		return errors.New("listener.backlog must not be negative")
	}
	if cfg.IdleTimeout < 0 {
		return errors.New("listener.idle_timeout must not be negative")
	}
	if cfg.GracefulCloseTimeout < 0 {
		return errors.New("listener.graceful_close_timeout must not be negative")
	}
	if cfg.AcceptRateLimit < 0 {
		return errors.New("listener.accept_rate_limit must not be negative")
	}
	return nil
}

func verifyTLS(cfg *TLSSection) error {
	if (cfg.CertFile == "") != (cfg.KeyFile == "") {
		return errors.New("tls.cert_file and tls.key_file must be set together")
	}

	switch cfg.MinVersion {
	case "", "1.2", "1.3":
	default:
		return fmt.Errorf("tls.min_version must be \"1.2\" or \"1.3\", got %q", cfg.MinVersion)
	}

	// SNI-only serving (domains without a default credential) is
	// allowed; clients that offer no SNI name then fail their handshake.
	for i, d := range cfg.Domains {
		if err := checkPattern(strings.ToLower(d.Pattern)); err != nil {
			return fmt.Errorf("tls.domains[%d]: %w", i, err)
		}
		if d.CertFile == "" || d.KeyFile == "" {
			return fmt.Errorf("tls.domains[%d] (%s): cert_file and key_file are required", i, d.Pattern)
		}
		for _, f := range []string{d.CertFile, d.KeyFile} {
			if _, err := os.Stat(f); err != nil {
				return fmt.Errorf("tls.domains[%d] (%s): %w", i, d.Pattern, err)
			}
		}
	}

	if cfg.CertFile != "" {
		for _, f := range []string{cfg.CertFile, cfg.KeyFile} {
			if _, err := os.Stat(f); err != nil {
				return fmt.Errorf("tls: %w", err)
			}
		}
	}
	if cfg.ClientCAFile != "" {
		if _, err := os.Stat(cfg.ClientCAFile); err != nil {
			return fmt.Errorf("tls.client_ca_file: %w", err)
		}
	}

	return nil
}
