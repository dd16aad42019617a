package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newBufLogger(t *testing.T, level, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: format, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func TestNew_JSONOutput(t *testing.T) {
	l, buf := newBufLogger(t, "info", "json")

	l.Info("server started", "addr", "127.0.0.1:5440")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "server started" {
		t.Errorf("msg = %v, want %q", entry["msg"], "server started")
	}
	if entry["addr"] != "127.0.0.1:5440" {
		t.Errorf("addr = %v, want %q", entry["addr"], "127.0.0.1:5440")
	}
}

func TestNew_TextOutput(t *testing.T) {
	l, buf := newBufLogger(t, "info", "text")

	l.Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output missing message: %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufLogger(t, "warn", "json")

	l.Debug("below")
	l.Info("below")
	if buf.Len() != 0 {
		t.Errorf("debug/info should be filtered at warn level, got %q", buf.String())
	}

	l.Warn("at level")
	if buf.Len() == 0 {
		t.Error("warn should be emitted at warn level")
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newBufLogger(t, "info", "json")

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatal("debug should be filtered at info level")
	}

	SetLevel("debug")
	defer SetLevel("info")

	l.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug should be emitted after SetLevel(debug)")
	}
	if GetLevel() != "debug" {
		t.Errorf("GetLevel() = %q, want %q", GetLevel(), "debug")
	}
}

func TestWith(t *testing.T) {
	l, buf := newBufLogger(t, "info", "json")

	l.With("component", "tcpserver").Info("accepting")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["component"] != "tcpserver" {
		t.Errorf("component = %v, want %q", entry["component"], "tcpserver")
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	if got := parseLevel("bogus"); got != parseLevel("info") {
		t.Errorf("parseLevel(bogus) = %v, want info level", got)
	}
}

func TestDefault_NotNil(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}
}
