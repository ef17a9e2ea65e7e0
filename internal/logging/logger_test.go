package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"apcexporter/internal/config"
)

// TestColorLineWriter_HighlightsLevelAndTokens verifies level and token coloring.
// Params: testing.T for assertions.
// Returns: none.
func TestColorLineWriter_HighlightsLevelAndTokens(t *testing.T) {
	var dst bytes.Buffer
	writer := &colorLineWriter{dst: &dst}

	line := `level=INFO msg="hello" peer=10.20.30.40 retries=3`
	if _, err := writer.Write([]byte(line)); err != nil {
		t.Fatalf("write: %v", err)
	}

	rendered := dst.String()
	if !strings.HasPrefix(rendered, ansiBlue) {
		t.Fatalf("expected INFO line base color")
	}
	if !strings.Contains(rendered, ansiGreen+`"hello"`+ansiReset+ansiBlue) {
		t.Fatalf("expected quoted string token color")
	}
	if !strings.Contains(rendered, ansiCyan+`10.20.30.40`+ansiReset+ansiBlue) {
		t.Fatalf("expected IP token color")
	}
	if !strings.Contains(rendered, ansiYellow+`3`+ansiReset+ansiBlue) {
		t.Fatalf("expected number token color")
	}
	if !strings.HasSuffix(rendered, ansiReset) {
		t.Fatalf("expected trailing reset sequence")
	}
}

// TestColorLineWriter_NoLevelColor verifies passthrough for unknown levels.
// Params: testing.T for assertions.
// Returns: none.
func TestColorLineWriter_NoLevelColor(t *testing.T) {
	var dst bytes.Buffer
	writer := &colorLineWriter{dst: &dst}

	line := `msg="plain" value=42`
	if _, err := writer.Write([]byte(line)); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got := dst.String(); got != line {
		t.Fatalf("expected passthrough line, got %q", got)
	}
}

// TestNew_FileSinkJSON verifies the file sink writes JSON records and the
// close function releases the handle.
// Params: testing.T for assertions.
// Returns: none.
func TestNew_FileSinkJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exporter.log")

	logger, closeFn, err := New(config.LogConfig{
		File: config.LogSinkConfig{
			Enabled: true,
			Level:   "info",
			Format:  "json",
			Path:    path,
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("scrape served", "targets", 2)
	closeFn()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	logged := string(raw)
	if !strings.Contains(logged, `"msg":"scrape served"`) {
		t.Fatalf("expected JSON record, got: %s", logged)
	}
	if !strings.Contains(logged, `"targets":2`) {
		t.Fatalf("expected attribute in record, got: %s", logged)
	}
}

// TestNew_RejectsUnknownLevel verifies level validation at logger build time.
// Params: testing.T for assertions.
// Returns: none.
func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, _, err := New(config.LogConfig{
		Console: config.LogSinkConfig{
			Enabled: true,
			Level:   "verbose",
			Format:  "line",
		},
	})
	if err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
