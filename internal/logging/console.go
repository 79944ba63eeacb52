package logging

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Attribute keys lifted into the console scope prefix. The capture store
// logs every record with both.
const (
	KindKey = "kind"
	NameKey = "name"
)

// ConsoleOptions configures a ConsoleHandler.
type ConsoleOptions struct {
	// Level defaults to Info.
	Level slog.Leveler
	// Color enables ANSI color.
	Color bool
	// Time prefixes each line with a wall-clock timestamp.
	Time bool
}

// ConsoleHandler writes one line per record:
//
//	15:04:05 INF [snapshot/baseline] capture created component=kitty
//
// A kind or name attribute at the top level becomes the bracketed scope
// instead of a key=value pair.
type ConsoleHandler struct {
	opts   ConsoleOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

// NewConsoleHandler returns a ConsoleHandler writing to out.
func NewConsoleHandler(out io.Writer, opts ConsoleOptions) *ConsoleHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	return &ConsoleHandler{opts: opts, out: out, mu: &sync.Mutex{}}
}

// Enabled reports whether level is at or above the handler's level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle formats r as a single line.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var kind, name string
	var pairs []string

	collect := func(groups []string, a slog.Attr) {
		if len(groups) == 0 {
			switch a.Key {
			case KindKey:
				kind = a.Value.Resolve().String()
				return
			case NameKey:
				name = a.Value.Resolve().String()
				return
			}
		}
		pairs = h.appendAttr(pairs, groups, a)
	}

	for _, a := range h.attrs {
		collect(nil, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(h.groups, a)
		return true
	})

	var b strings.Builder
	if h.opts.Time && !r.Time.IsZero() {
		b.WriteString(h.paint(color.FgHiBlack, r.Time.Format(time.TimeOnly)))
		b.WriteByte(' ')
	}
	b.WriteString(h.levelTag(r.Level))
	b.WriteByte(' ')
	if scope := joinScope(kind, name); scope != "" {
		b.WriteString(h.paint(color.FgBlue, "["+scope+"]"))
		b.WriteByte(' ')
	}
	b.WriteString(r.Message)
	for _, p := range pairs {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func joinScope(kind, name string) string {
	switch {
	case kind != "" && name != "":
		return kind + "/" + name
	case kind != "":
		return kind
	default:
		return name
	}
}

func (h *ConsoleHandler) levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return h.paint(color.FgRed, "ERR")
	case l >= slog.LevelWarn:
		return h.paint(color.FgYellow, "WRN")
	case l >= slog.LevelInfo:
		return h.paint(color.FgGreen, "INF")
	case l > LevelTrace:
		return h.paint(color.FgMagenta, "DBG")
	default:
		return h.paint(color.FgHiBlack, "TRC")
	}
}

func (h *ConsoleHandler) paint(attr color.Attribute, s string) string {
	if !h.opts.Color {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

func (h *ConsoleHandler) appendAttr(pairs []string, groups []string, a slog.Attr) []string {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return pairs
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(append([]string(nil), groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			pairs = h.appendAttr(pairs, sub, ga)
		}
		return pairs
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	var value string
	switch v := a.Value.Any().(type) {
	case error:
		value = v.Error()
	case time.Duration:
		value = v.String()
	default:
		value = a.Value.String()
	}
	if value == "" || strings.ContainsAny(value, " \t\n\"=") {
		value = strconv.Quote(value)
	}

	return append(pairs, h.paint(color.FgCyan, key)+"="+value)
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		if len(h.groups) > 0 {
			a = slog.Attr{Key: strings.Join(h.groups, "."), Value: slog.GroupValue(a)}
		}
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(append([]string(nil), h.groups...), name)
	return &h2
}
