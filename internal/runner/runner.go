// Package runner runs external tools with a timeout and reports their exit
// status and stderr.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/logging"
)

// DefaultTimeout bounds a tool invocation when no timeout is configured.
const DefaultTimeout = 2 * time.Minute

// Runner runs a named external tool.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// Result holds the captured output of a successful run.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Failure reports a tool that ran but exited non-zero. It is marked
// errors.ErrSubprocess.
type Failure struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", f.Tool, f.ExitCode)
	if s := strings.TrimSpace(f.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Exec runs tools as child processes.
type Exec struct {
	// Timeout bounds each Run. Zero means DefaultTimeout.
	Timeout time.Duration
}

// New returns an Exec with the given timeout.
func New(timeout time.Duration) *Exec {
	return &Exec{Timeout: timeout}
}

// Run executes name with args and waits for it to finish.
//
// A tool that cannot be started returns an error marked errors.ErrSubprocess.
// A non-zero exit returns a *Failure. A run exceeding the timeout is killed
// and returns errors.ErrTimeout.
func (e *Exec) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.FromContext(ctx).Debug("running tool", "tool", name, "args", args, "timeout", timeout)

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, errors.Wrapf(errors.ErrTimeout, "%s after %s", name, timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, errors.Mark(&Failure{
				Tool:     name,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}, errors.ErrSubprocess)
		}
		return nil, errors.Mark(errors.Wrapf(err, "starting %s", name), errors.ErrSubprocess)
	}

	return &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
}
