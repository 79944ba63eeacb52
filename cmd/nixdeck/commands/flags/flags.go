// Package flags provides shared state set by the root command and read by
// the noun subpackages (snapshot, container, rice). It exists to avoid
// import cycles between the root command and those subpackages.
package flags

import (
	"os"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/errors"
)

var (
	env *cli.Env

	// assumeYes holds the value of the --yes flag.
	assumeYes bool

	// interactive overrides terminal detection when non-nil.
	interactive *bool
)

// SetEnv stores the environment built from the resolved configuration.
func SetEnv(e *cli.Env) {
	env = e
}

// GetEnv returns the environment set by the root command.
func GetEnv() (*cli.Env, error) {
	if env == nil {
		return nil, errors.New("configuration not loaded")
	}
	return env, nil
}

// AssumeYes reports whether confirmation prompts should be skipped.
func AssumeYes() bool {
	return assumeYes
}

// SetAssumeYes sets the --yes flag value.
func SetAssumeYes(v bool) {
	assumeYes = v
}

// AssumeYesVar exposes the --yes flag storage to the root command.
func AssumeYesVar() *bool {
	return &assumeYes
}

// Interactive reports whether prompts and pickers may be shown.
func Interactive() bool {
	if interactive != nil {
		return *interactive
	}
	return cli.IsInteractive(os.Stdin, os.Stdout)
}

// SetInteractive forces interactive mode on or off. Tests use it to keep
// pickers away from the terminal.
func SetInteractive(v bool) {
	interactive = &v
}

// ResetInteractive restores terminal detection.
func ResetInteractive() {
	interactive = nil
}

// Resolver returns a name resolver honoring the interactive setting.
func Resolver() cli.NameResolver {
	return cli.NameResolver{Interactive: Interactive()}
}
