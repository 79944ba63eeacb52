package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("capture created", "kind", "snapshot", "name", "baseline")

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if parsed["msg"] != "capture created" {
		t.Errorf("msg = %v", parsed["msg"])
	}
	if parsed["name"] != "baseline" {
		t.Errorf("name = %v", parsed["name"])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatText, Output: &buf})

	logger.Info("capture created", "kind", "snapshot", "name", "baseline", "files", 2)

	got := buf.String()
	want := "INF [snapshot/baseline] capture created files=2\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestNew_UnknownFormatIsText(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: slog.LevelInfo, Format: "xml", Output: &buf}).Info("hello")

	if strings.HasPrefix(buf.String(), "{") {
		t.Errorf("unknown format should fall back to text, got %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"text", FormatText, true},
		{" JSON ", FormatJSON, true},
		{"yaml", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  []string
	}{
		{slog.LevelWarn, []string{"WRN", "ERR"}},
		{slog.LevelInfo, []string{"INF", "WRN", "ERR"}},
		{LevelTrace, []string{"TRC", "DBG", "INF", "WRN", "ERR"}},
	}

	for _, tt := range tests {
		t.Run(LevelName(tt.level), func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.level, Output: &buf})
			logger.Log(t.Context(), LevelTrace, "trace")
			logger.Debug("debug")
			logger.Info("info")
			logger.Warn("warn")
			logger.Error("error")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(tt.want), buf.String())
			}
			for i, tag := range tt.want {
				if !strings.Contains(lines[i], tag+" ") {
					t.Errorf("line %d = %q, want tag %s", i, lines[i], tag)
				}
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{4, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestLevelName(t *testing.T) {
	if got := LevelName(LevelTrace); got != "TRACE" {
		t.Errorf("LevelName(LevelTrace) = %q", got)
	}
	if got := LevelName(slog.LevelWarn); got != "WARN" {
		t.Errorf("LevelName(Warn) = %q", got)
	}
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	ctx := NewContext(t.Context(), logger)
	FromContext(ctx).Info("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("logger from context did not write to buffer: %q", buf.String())
	}
	if FromContext(t.Context()) != slog.Default() {
		t.Error("FromContext without a logger should return slog.Default()")
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("discard logger should not be enabled at any level")
	}
	logger.Error("dropped")
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	if !logger.Enabled(t.Context(), LevelTrace) {
		t.Error("ForTest logger should capture trace records")
	}
	logger.Info("visible with -v", "component", "kitty")
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nixdeck.log")

	w := NewFileWriter(FileConfig{Path: path})
	logger := slog.New(NewFileHandler(w, LevelTrace))
	logger.Log(t.Context(), LevelTrace, "copy", "name", "s1")
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("log file is not a single JSON record: %v\n%s", err, data)
	}
	if parsed["name"] != "s1" {
		t.Errorf("name = %v, want s1", parsed["name"])
	}
	if parsed["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", parsed["level"])
	}
}
