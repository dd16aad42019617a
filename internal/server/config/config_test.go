package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTestCertAndKey(t *testing.T, certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		DNSNames:     []string{"test"},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate() error = %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("MarshalECPrivateKey() error = %v", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	if err := os.WriteFile(certFile, certPEM, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(keyFile, keyPEM, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Listener.Addr != DefaultListenAddr {
		t.Errorf("Listener.Addr = %q, want %q", cfg.Listener.Addr, DefaultListenAddr)
	}
	if !cfg.Listener.AutoRead {
		t.Error("Listener.AutoRead = false, want true")
	}
	if cfg.Socket.Linger != -1 {
		t.Errorf("Socket.Linger = %d, want -1", cfg.Socket.Linger)
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) error = %v", err)
	}
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	writeTestCertAndKey(t, certFile, keyFile)

	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:   "default is valid",
			mutate: func(*ServerConfig) {},
		},
		{
			name:    "missing addr",
			mutate:  func(c *ServerConfig) { c.Listener.Addr = "" },
			wantErr: "listener.addr",
		},
		{
			name:    "negative backlog",
			mutate:  func(c *ServerConfig) { c.Listener.Backlog = -1 },
			wantErr: "listener.backlog",
		},
		{
			name:    "negative idle timeout",
			mutate:  func(c *ServerConfig) { c.Listener.IdleTimeout = -time.Second },
			wantErr: "listener.idle_timeout",
		},
		{
			name:    "cert without key",
			mutate:  func(c *ServerConfig) { c.TLS.CertFile = certFile },
			wantErr: "must be set together",
		},
		{
			name:    "bad min version",
			mutate:  func(c *ServerConfig) { c.TLS.MinVersion = "1.1" },
			wantErr: "tls.min_version",
		},
		{
			name: "bad domain pattern",
			mutate: func(c *ServerConfig) {
				c.TLS.Domains = []DomainCredential{{Pattern: "*.", CertFile: certFile, KeyFile: keyFile}}
			},
			wantErr: "tls.domains[0]",
		},
		{
			name: "domain missing key file",
			mutate: func(c *ServerConfig) {
				c.TLS.Domains = []DomainCredential{{Pattern: "a.example.com", CertFile: certFile}}
			},
			wantErr: "cert_file and key_file are required",
		},
		{
			name: "domain cert file absent",
			mutate: func(c *ServerConfig) {
				c.TLS.Domains = []DomainCredential{{
					Pattern:  "a.example.com",
					CertFile: filepath.Join(dir, "nope.pem"),
					KeyFile:  keyFile,
				}}
			},
			wantErr: "tls.domains[0]",
		},
		{
			name: "valid tls",
			mutate: func(c *ServerConfig) {
				c.TLS.CertFile = certFile
				c.TLS.KeyFile = keyFile
				c.TLS.Domains = []DomainCredential{{Pattern: "*.example.com", CertFile: certFile, KeyFile: keyFile}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Verify(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Verify() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Admin.AuthToken = "super-secret-token"

	clean := Sanitize(cfg)
	if clean.Admin.AuthToken == cfg.Admin.AuthToken {
		t.Error("Sanitize() left the auth token readable")
	}
	if cfg.Admin.AuthToken != "super-secret-token" {
		t.Error("Sanitize() mutated the original config")
	}
	if clean.Listener.Addr != cfg.Listener.Addr {
		t.Error("Sanitize() changed a non-secret field")
	}
}

func TestBuild_NoTLS(t *testing.T) {
	cfg := Default()
	cfg.Listener.Backlog = 32
	cfg.Listener.IdleTimeout = time.Minute
	cfg.Socket.RecvBuffer = 1 << 16

	b, stop, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer stop()

	s := b.Snapshot()
	if s.Backlog() != 32 {
		t.Errorf("Backlog() = %d, want 32", s.Backlog())
	}
	if s.IdleTimeout() != time.Minute {
		t.Errorf("IdleTimeout() = %v, want 1m", s.IdleTimeout())
	}
	if s.DefaultTLS() != nil {
		t.Error("DefaultTLS() != nil without certificates")
	}

	// Order: buffers first, then keep-alive, no-delay, linger.
	entries := s.Options().Entries()
	want := []Option{OptionRecvBuffer, OptionKeepAlive, OptionNoDelay}
	if len(entries) != len(want) {
		t.Fatalf("Options().Entries() = %v, want keys %v", entries, want)
	}
	for i := range want {
		if entries[i].Key != want[i] {
			t.Errorf("Entries()[%d].Key = %q, want %q", i, entries[i].Key, want[i])
		}
	}
}

func TestBuild_WithTLSDomains(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	writeTestCertAndKey(t, certFile, keyFile)

	cfg := Default()
	cfg.TLS.CertFile = certFile
	cfg.TLS.KeyFile = keyFile
	cfg.TLS.Domains = []DomainCredential{
		{Pattern: "*.example.com", CertFile: certFile, KeyFile: keyFile},
	}

	b, stop, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer stop()

	s := b.Snapshot()
	if s.DefaultTLS() == nil {
		t.Fatal("DefaultTLS() = nil, want the default credential")
	}

	ctx, err := s.Domains().Resolve("api.example.com")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if ctx == nil || len(ctx.Certificates) == 0 {
		t.Error("resolved credential carries no certificate")
	}

	// Unmatched hostnames fall back to the default credential.
	def, err := s.Domains().Resolve("other.test")
	if err != nil {
		t.Fatalf("Resolve(unmatched) error = %v", err)
	}
	if def != s.DefaultTLS() {
		t.Error("Resolve(unmatched) did not return the default credential")
	}
}

func TestBuild_BadDomainPattern(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	writeTestCertAndKey(t, certFile, keyFile)

	cfg := Default()
	cfg.TLS.Domains = []DomainCredential{
		{Pattern: "*", CertFile: certFile, KeyFile: keyFile},
	}

	if _, _, err := Build(cfg); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("Build() error = %v, want ErrInvalidPattern", err)
	}
}
