package container

import (
	"context"

	"github.com/thoreinstein/nixdeck/internal/runner"
)

// mockRunner implements runner.Runner for testing.
type mockRunner struct {
	name string
	args []string
	err  error
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) (*runner.Result, error) {
	m.name = name
	m.args = args
	if m.err != nil {
		return nil, m.err
	}
	return &runner.Result{}, nil
}
