// Package editor launches the user's text editor on a component config file.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/logging"
)

// Session is one editor invocation. Nil streams default to the process's
// own stdin, stdout and stderr.
type Session struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Open launches the user's preferred editor on path using the process streams.
func Open(ctx context.Context, path string) error {
	return Session{}.Open(ctx, path)
}

// Open launches the editor on path and waits for it to exit.
// $EDITOR may carry arguments, e.g. "code --wait".
func (s Session) Open(ctx context.Context, path string) error {
	fields := strings.Fields(detectEditor())
	args := append(fields[1:], path)

	logging.FromContext(ctx).Debug("launching editor", "editor", fields[0], "path", path)

	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = orReader(s.Stdin, os.Stdin)
	cmd.Stdout = orWriter(s.Stdout, os.Stdout)
	cmd.Stderr = orWriter(s.Stderr, os.Stderr)

	if err := cmd.Run(); err != nil {
		return errors.Mark(errors.Wrapf(err, "running editor %s", fields[0]), errors.ErrSubprocess)
	}
	return nil
}

// detectEditor returns the editor command to use.
// Fallback chain: $EDITOR, $VISUAL, nano, vi.
func detectEditor() string {
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor
	}
	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}

func orReader(r, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orWriter(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
