package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/nixdeck/internal/capture"
)

// DirCheck verifies that a directory exists and is writable.
type DirCheck struct {
	name     string
	path     string
	required bool
}

// NewDirCheck checks path. A missing path is a warning when required and
// informational otherwise.
func NewDirCheck(name, path string, required bool) *DirCheck {
	return &DirCheck{name: name, path: path, required: required}
}

// Name returns the check identifier.
func (c *DirCheck) Name() string {
	return c.name
}

// Category returns "paths".
func (c *DirCheck) Category() string {
	return "paths"
}

// Run stats the directory and probes it for writability.
func (c *DirCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Paths:    []string{c.path},
	}

	info, err := os.Stat(c.path)
	switch {
	case os.IsNotExist(err):
		if c.required {
			result.Status = SeverityWarning
			result.Message = "directory does not exist"
			result.FixHint = "mkdir -p " + c.path
		} else {
			result.Status = SeverityInfo
			result.Message = "directory does not exist yet; it is created on first use"
		}
		return result
	case err != nil:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat: %v", err)
		return result
	case !info.IsDir():
		result.Status = SeverityError
		result.Message = "path exists but is not a directory"
		return result
	}

	if err := probeWritable(c.path); err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("directory is not writable: %v", err)
		result.FixHint = "chmod u+w " + c.path
		return result
	}

	result.Status = SeverityPass
	result.Message = "directory is writable"
	return result
}

// probeWritable tests a directory by creating and removing a temp file.
func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".nixdeck-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// ToolCheck verifies that an external tool is on PATH.
type ToolCheck struct {
	tool    string
	purpose string
}

// NewToolCheck checks for tool, which is needed for purpose.
func NewToolCheck(tool, purpose string) *ToolCheck {
	return &ToolCheck{tool: tool, purpose: purpose}
}

// Name returns the check identifier.
func (c *ToolCheck) Name() string {
	return "tool-" + c.tool
}

// Category returns "tools".
func (c *ToolCheck) Category() string {
	return "tools"
}

// Run looks the tool up on PATH.
func (c *ToolCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	path, err := exec.LookPath(c.tool)
	if err != nil {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%s not found on PATH; %s will fail", c.tool, c.purpose)
		result.FixHint = "install " + c.tool + " or set archiver in the config file"
		return result
	}

	result.Status = SeverityPass
	result.Message = "found " + path
	result.Paths = []string{path}
	return result
}

// IncompleteFunc returns the names of captures without readable metadata.
type IncompleteFunc func(ctx context.Context) ([]string, error)

// CaptureCheck reports incomplete captures and staging directories left by
// interrupted creates. Staging directories can be removed with Fix.
type CaptureCheck struct {
	kind       string
	dir        string
	incomplete IncompleteFunc

	stale []string
}

// NewCaptureCheck checks the captures of kind stored in dir.
func NewCaptureCheck(kind, dir string, incomplete IncompleteFunc) *CaptureCheck {
	return &CaptureCheck{kind: kind, dir: dir, incomplete: incomplete}
}

// Name returns the check identifier.
func (c *CaptureCheck) Name() string {
	return c.kind + "-integrity"
}

// Category returns "captures".
func (c *CaptureCheck) Category() string {
	return "captures"
}

// Run lists incomplete captures and leftover staging directories.
func (c *CaptureCheck) Run(ctx context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	stale, err := capture.StagingDirs(c.dir)
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		return result
	}
	c.stale = stale

	broken, err := c.incomplete(ctx)
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		return result
	}

	var problems []string
	if len(broken) > 0 {
		problems = append(problems, fmt.Sprintf("%d incomplete %s(s): %s", len(broken), c.kind, strings.Join(broken, ", ")))
		result.FixHint = fmt.Sprintf("nixdeck %s delete <name>", c.kind)
	}
	if len(stale) > 0 {
		problems = append(problems, fmt.Sprintf("%d leftover staging director(ies)", len(stale)))
		result.Paths = stale
		result.Fixable = true
	}

	if len(problems) == 0 {
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("all %ss are complete", c.kind)
		return result
	}

	result.Status = SeverityWarning
	result.Message = strings.Join(problems, "; ")
	return result
}

// CanFix reports whether Run found staging directories.
func (c *CaptureCheck) CanFix() bool {
	return len(c.stale) > 0
}

// Fix removes the staging directories found by Run.
func (c *CaptureCheck) Fix(_ context.Context) []FixResult {
	return removeAll(c.stale, "removed staging directory")
}

// LeftoverCheck reports incoming copies left in the component root by
// interrupted restores. They can be removed with Fix.
type LeftoverCheck struct {
	componentRoot string
	found         []string
}

// NewLeftoverCheck checks componentRoot.
func NewLeftoverCheck(componentRoot string) *LeftoverCheck {
	return &LeftoverCheck{componentRoot: componentRoot}
}

// Name returns the check identifier.
func (c *LeftoverCheck) Name() string {
	return "restore-leftovers"
}

// Category returns "captures".
func (c *LeftoverCheck) Category() string {
	return "captures"
}

// Run looks for incoming directories.
func (c *LeftoverCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	found, err := capture.IncomingDirs(c.componentRoot)
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		return result
	}
	c.found = found

	if len(found) == 0 {
		result.Status = SeverityPass
		result.Message = "no interrupted restores"
		return result
	}

	result.Status = SeverityWarning
	result.Message = fmt.Sprintf("%d incoming director(ies) from interrupted restores", len(found))
	result.Paths = found
	result.Fixable = true
	return result
}

// CanFix reports whether Run found leftovers.
func (c *LeftoverCheck) CanFix() bool {
	return len(c.found) > 0
}

// Fix removes the leftovers found by Run.
func (c *LeftoverCheck) Fix(_ context.Context) []FixResult {
	return removeAll(c.found, "removed incoming directory")
}

// ConfigCheck reports the outcome of loading the config file.
type ConfigCheck struct {
	path    string
	loadErr error
}

// NewConfigCheck reports on the config file at path (empty when none was
// found) that failed to load with loadErr, or nil.
func NewConfigCheck(path string, loadErr error) *ConfigCheck {
	return &ConfigCheck{path: path, loadErr: loadErr}
}

// Name returns the check identifier.
func (c *ConfigCheck) Name() string {
	return "config-file"
}

// Category returns "config".
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run reports the load result.
func (c *ConfigCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}
	if c.path != "" {
		result.Paths = []string{c.path}
	}

	switch {
	case c.loadErr != nil:
		result.Status = SeverityError
		result.Message = c.loadErr.Error()
		result.FixHint = "nixdeck config show"
	case c.path == "":
		result.Status = SeverityInfo
		result.Message = "no config file found; defaults in use"
		result.FixHint = "nixdeck config init"
	default:
		result.Status = SeverityPass
		result.Message = "config file loaded"
	}
	return result
}

func removeAll(paths []string, description string) []FixResult {
	results := make([]FixResult, 0, len(paths))
	for _, p := range paths {
		res := FixResult{Path: p, Description: description}
		if err := os.RemoveAll(p); err != nil {
			res.Error = err
			res.Description = fmt.Sprintf("could not remove: %v", err)
		} else {
			res.Fixed = true
		}
		results = append(results, res)
	}
	return results
}
