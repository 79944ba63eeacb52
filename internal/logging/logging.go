package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace is below Debug and enables per-file copy logging.
const LevelTrace = slog.LevelDebug - 4

// Format specifies the output format for log messages.
type Format string

const (
	// FormatText produces human-readable console output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// ParseFormat validates a --log-format value.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, true
	default:
		return "", false
	}
}

// Config holds the configuration for creating a new logger.
type Config struct {
	// Level sets the minimum log level.
	Level slog.Level
	// Format selects console or JSON output. Unknown values mean text.
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a logger for cfg. Text output goes through a ConsoleHandler
// with color when Output is a terminal.
func New(cfg Config) *slog.Logger {
	return slog.New(NewStreamHandler(cfg))
}

// NewStreamHandler returns the handler New would use.
func NewStreamHandler(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format == FormatJSON {
		return slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       cfg.Level,
			ReplaceAttr: replaceLevel,
		})
	}
	return NewConsoleHandler(out, ConsoleOptions{
		Level: cfg.Level,
		Color: ColorEnabled(out),
		Time:  cfg.Level <= slog.LevelDebug,
	})
}

// LevelFromVerbosity maps the count of -v flags to a log level.
// Zero (or less) shows warnings and errors only.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// LevelName renders l, naming LevelTrace "TRACE" instead of "DEBUG-4".
func LevelName(l slog.Level) string {
	if l <= LevelTrace {
		return "TRACE"
	}
	return l.String()
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if l, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, LevelName(l))
		}
	}
	return a
}

// FileConfig describes the rotating log file written by --log-file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewFileWriter returns a size-rotated writer for cfg.Path.
// Zero limits fall back to 5 MB, 3 backups, and 28 days.
func NewFileWriter(cfg FileConfig) io.WriteCloser {
	w := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	if w.MaxSize == 0 {
		w.MaxSize = 5
	}
	if w.MaxBackups == 0 {
		w.MaxBackups = 3
	}
	if w.MaxAge == 0 {
		w.MaxAge = 28
	}
	return w
}

// NewFileHandler returns a JSON handler writing to w at the given level.
func NewFileHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel})
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}

// NewDiscard creates a logger that discards all output.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testWriter sends each record to t.Log.
type testWriter struct {
	t testing.TB
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest returns a trace-level logger writing through t.Log, so output
// shows only for failing tests or with -v.
func ForTest(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(NewConsoleHandler(&testWriter{t: t}, ConsoleOptions{Level: LevelTrace}))
}
