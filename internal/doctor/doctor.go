package doctor

import (
	"context"
	"log/slog"
	"time"
)

// Check is the interface that diagnostic checks must implement.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Category returns the grouping for this check (e.g., "paths", "captures").
	Category() string

	// Run executes the diagnostic check and returns its result.
	Run(ctx context.Context) *CheckResult
}

// Fixer is implemented by checks that can remediate what they found.
// Fix must be called after Run.
type Fixer interface {
	CanFix() bool
	Fix(ctx context.Context) []FixResult
}

// FixResult describes the outcome of one attempted fix.
type FixResult struct {
	Path        string `json:"path"`
	Fixed       bool   `json:"fixed"`
	Description string `json:"description"`
	Error       error  `json:"-"`
}

// Runner executes diagnostic checks and aggregates their results.
type Runner struct {
	checks []Check
	logger *slog.Logger
	now    func() time.Time
}

// NewRunner creates a new diagnostic runner.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		checks: make([]Check, 0),
		logger: logger,
		now:    time.Now,
	}
}

// AddCheck registers a diagnostic check with the runner.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes all registered checks in order and returns a report.
func (r *Runner) Run(ctx context.Context) *Report {
	report := &Report{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		result := check.Run(ctx)
		r.logger.Debug("check finished", "check", check.Name(), "status", result.Status.String())
		report.Results = append(report.Results, result)
		report.Summary.add(result.Status)
	}

	return report
}

// Fix runs Fix on every registered check that has something to fix.
// Run must have been called first.
func (r *Runner) Fix(ctx context.Context) []FixResult {
	var results []FixResult
	for _, check := range r.checks {
		fixer, ok := check.(Fixer)
		if !ok || !fixer.CanFix() {
			continue
		}
		for _, res := range fixer.Fix(ctx) {
			if res.Error != nil {
				r.logger.Warn("fix failed", "check", check.Name(), "path", res.Path, "error", res.Error)
			}
			results = append(results, res)
		}
	}
	return results
}

// Report aggregates all check results with timing and summary.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

// HasErrors returns true if any check has SeverityError.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if any check has SeverityWarning.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}
