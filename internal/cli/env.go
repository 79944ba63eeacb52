// Package cli wires configuration into the managers used by the nixdeck
// commands and holds helpers shared across them.
package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/thoreinstein/nixdeck/internal/cli/prompt"
	"github.com/thoreinstein/nixdeck/internal/config"
	"github.com/thoreinstein/nixdeck/internal/container"
	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/rice"
	"github.com/thoreinstein/nixdeck/internal/runner"
	"github.com/thoreinstein/nixdeck/internal/snapshot"
)

// Env holds the resolved configuration a command runs with.
type Env struct {
	Config *config.Config
	Logger *slog.Logger

	// Runner runs external tools. Nil means a runner.Exec bounded by
	// Config.ToolTimeout.
	Runner runner.Runner
}

// NewEnv returns an Env for cfg, which must already be resolved.
func NewEnv(cfg *config.Config, logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.Default()
	}
	return &Env{Config: cfg, Logger: logger}
}

// Snapshots returns a snapshot manager for the configured roots.
func (e *Env) Snapshots() *snapshot.Manager {
	return snapshot.NewManager(e.Config.RootDir, e.Config.ComponentDir,
		snapshot.WithLogger(e.Logger),
	)
}

// Containers returns a container manager for the configured roots.
func (e *Env) Containers() *container.Manager {
	r := e.Runner
	if r == nil {
		r = runner.New(e.Config.ToolTimeout)
	}
	return container.NewManager(e.Config.RootDir, e.Config.ComponentDir,
		container.WithLogger(e.Logger),
		container.WithRunner(r),
		container.WithArchiver(e.Config.Archiver),
	)
}

// Editor returns a single-component config editor.
func (e *Env) Editor() *rice.Editor {
	return rice.NewEditor(e.Config.ComponentDir, e.Logger)
}

// IsInteractive reports whether both r and w are terminals.
func IsInteractive(r io.Reader, w io.Writer) bool {
	return isTerminal(r) && isTerminal(w)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NameResolver picks the capture a command acts on.
type NameResolver struct {
	// Interactive enables the picker when no name is given.
	Interactive bool

	// Find runs the picker. Nil means prompt.Fuzzy.
	Find prompt.FindFunc
}

// Resolve returns args[0] when present. Otherwise, when interactive, it
// lets the user pick one of choices; when not, it fails with
// errors.ErrMissingName.
func (n NameResolver) Resolve(args []string, kind string, choices func() ([]prompt.Choice, error)) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !n.Interactive {
		return "", errors.Wrapf(errors.ErrMissingName, "%s name required", kind)
	}

	list, err := choices()
	if err != nil {
		return "", err
	}

	find := n.Find
	if find == nil {
		find = prompt.Fuzzy
	}
	choice, err := prompt.Pick(find, kind, list)
	if err != nil {
		return "", err
	}
	return choice.Name, nil
}
