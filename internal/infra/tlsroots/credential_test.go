package tlsroots

import (
	"crypto/tls"
	"path/filepath"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"", tls.VersionTLS12, false},
		{"1.2", tls.VersionTLS12, false},
		{"1.3", tls.VersionTLS13, false},
		{"1.0", 0, true},
		{"ssl3", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseVersion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVersion(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestServerCredential(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	generateTestCertAndKey(t, certFile, keyFile)

	cfg, err := ServerCredential(certFile, keyFile, tls.VersionTLS12, nil)
	if err != nil {
		t.Fatalf("ServerCredential() error = %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Errorf("len(Certificates) = %d, want 1", len(cfg.Certificates))
	}
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %#x, want TLS 1.2", cfg.MinVersion)
	}
	if cfg.ClientAuth != tls.NoClientCert {
		t.Errorf("ClientAuth = %v, want NoClientCert", cfg.ClientAuth)
	}
}

func TestServerCredential_WithClientCAs(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	generateTestCertAndKey(t, certFile, keyFile)

	pool := NewEmptyPool()
	if err := pool.AddCertPEM(generateTestCertPEM(t)); err != nil {
		t.Fatalf("AddCertPEM() error = %v", err)
	}

	cfg, err := ServerCredential(certFile, keyFile, tls.VersionTLS13, pool)
	if err != nil {
		t.Fatalf("ServerCredential() error = %v", err)
	}
	if cfg.ClientAuth != tls.RequireAndVerifyClientCert {
		t.Errorf("ClientAuth = %v, want RequireAndVerifyClientCert", cfg.ClientAuth)
	}
	if cfg.ClientCAs != pool.Pool() {
		t.Error("ClientCAs should be the provided pool")
	}
}

func TestServerCredential_MissingFiles(t *testing.T) {
	if _, err := ServerCredential("/nonexistent/cert", "/nonexistent/key", tls.VersionTLS12, nil); err == nil {
		t.Error("ServerCredential() expected error for nonexistent files")
	}
}

func TestWatchedCredential(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	generateTestCertAndKey(t, certFile, keyFile)

	w, err := NewWatcher(certFile, keyFile)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	cfg := WatchedCredential(w, tls.VersionTLS13, nil)
	if cfg.GetCertificate == nil {
		t.Fatal("GetCertificate should be set")
	}

	cert, err := cfg.GetCertificate(&tls.ClientHelloInfo{ServerName: "test.local"})
	if err != nil {
		t.Fatalf("GetCertificate() error = %v", err)
	}
	if cert == nil {
		t.Fatal("GetCertificate() returned nil cert")
	}
}

func TestWatcher_ReloadPicksUpRotation(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	generateTestCertAndKey(t, certFile, keyFile)

	w, err := NewWatcher(certFile, keyFile)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	before, _ := w.GetCertificate(nil)

	// Rotate the pair on disk and reload directly (fsnotify timing is
	// not under test here).
	generateTestCertAndKey(t, certFile, keyFile)
	if err := w.reload(); err != nil {
		t.Fatalf("reload() error = %v", err)
	}

	after, _ := w.GetCertificate(nil)
	if before == after {
		t.Error("reload() should swap in the new certificate")
	}
}

func TestNewWatcher_MissingFiles(t *testing.T) {
	if _, err := NewWatcher("/nonexistent/cert", "/nonexistent/key"); err == nil {
		t.Error("NewWatcher() expected error for nonexistent files")
	}
}
