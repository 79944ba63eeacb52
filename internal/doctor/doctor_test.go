package doctor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/nixdeck/internal/capture"
	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/logging"
)

func TestRunner_Run(t *testing.T) {
	r := NewRunner(logging.ForTest(t))
	r.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	statuses := []Severity{SeverityPass, SeverityWarning, SeverityInfo, SeverityError, SeverityPass}
	for i, status := range statuses {
		check := NewMockCheck(t)
		name := string(rune('a' + i))
		check.EXPECT().Name().Return(name).Maybe()
		check.EXPECT().Run(mock.Anything).Return(&CheckResult{Name: name, Status: status}).Once()
		r.AddCheck(check)
	}

	report := r.Run(t.Context())

	require.Len(t, report.Results, len(statuses))
	assert.Equal(t, "a", report.Results[0].Name)
	assert.Equal(t, "e", report.Results[4].Name)
	assert.Equal(t, Summary{Passed: 2, Info: 1, Warnings: 1, Errors: 1}, report.Summary)
	assert.True(t, report.HasErrors())
	assert.True(t, report.HasWarnings())
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), report.Timestamp)
}

func TestRunner_EmptyReport(t *testing.T) {
	report := NewRunner(nil).Run(t.Context())
	assert.Empty(t, report.Results)
	assert.False(t, report.HasErrors())
	assert.False(t, report.HasWarnings())
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(&CheckResult{Name: "x", Status: SeverityWarning})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","category":"","status":"warning","message":""}`, string(data))
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestDirCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	tests := []struct {
		name     string
		path     string
		required bool
		want     Severity
	}{
		{"writable", dir, true, SeverityPass},
		{"missing required", filepath.Join(dir, "nope"), true, SeverityWarning},
		{"missing optional", filepath.Join(dir, "nope"), false, SeverityInfo},
		{"not a directory", file, true, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewDirCheck("root-dir", tt.path, tt.required).Run(t.Context())
			assert.Equal(t, tt.want, res.Status, res.Message)
			assert.Equal(t, "paths", res.Category)
			assert.Equal(t, []string{tt.path}, res.Paths)
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "writability probe must clean up")
}

func TestToolCheck(t *testing.T) {
	res := NewToolCheck("sh", "testing").Run(t.Context())
	assert.Equal(t, SeverityPass, res.Status)

	res = NewToolCheck("nixdeck-no-such-archiver", "container export").Run(t.Context())
	assert.Equal(t, SeverityWarning, res.Status)
	assert.Contains(t, res.Message, "container export will fail")
	assert.Equal(t, "tool-nixdeck-no-such-archiver", res.Name)
}

func TestCaptureCheck(t *testing.T) {
	dir := t.TempDir()
	none := func(context.Context) ([]string, error) { return nil, nil }

	res := NewCaptureCheck("snapshot", dir, none).Run(t.Context())
	assert.Equal(t, SeverityPass, res.Status)

	stale := filepath.Join(dir, ".s1.staging-123")
	require.NoError(t, os.MkdirAll(filepath.Join(stale, "kitty"), 0o755))
	broken := func(context.Context) ([]string, error) { return []string{"half"}, nil }

	check := NewCaptureCheck("snapshot", dir, broken)
	res = check.Run(t.Context())
	assert.Equal(t, SeverityWarning, res.Status)
	assert.Contains(t, res.Message, "1 incomplete snapshot(s): half")
	assert.Contains(t, res.Message, "1 leftover staging")
	assert.True(t, res.Fixable)
	assert.Equal(t, []string{stale}, res.Paths)

	require.True(t, check.CanFix())
	fixes := check.Fix(t.Context())
	require.Len(t, fixes, 1)
	assert.True(t, fixes[0].Fixed)
	assert.NoDirExists(t, stale)
}

func TestCaptureCheck_ListError(t *testing.T) {
	failing := func(context.Context) ([]string, error) { return nil, errors.New("boom") }
	res := NewCaptureCheck("container", t.TempDir(), failing).Run(t.Context())
	assert.Equal(t, SeverityError, res.Status)
	assert.Equal(t, "boom", res.Message)
}

func TestLeftoverCheck(t *testing.T) {
	root := t.TempDir()
	check := NewLeftoverCheck(root)

	res := check.Run(t.Context())
	assert.Equal(t, SeverityPass, res.Status)
	assert.False(t, check.CanFix())

	leftover := filepath.Join(root, "waybar"+capture.IncomingSuffix)
	require.NoError(t, os.MkdirAll(leftover, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "waybar"), 0o755))

	res = check.Run(t.Context())
	assert.Equal(t, SeverityWarning, res.Status)
	assert.Equal(t, []string{leftover}, res.Paths)

	r := NewRunner(logging.ForTest(t))
	r.AddCheck(check)
	r.Run(t.Context())
	fixes := r.Fix(t.Context())
	require.Len(t, fixes, 1)
	assert.True(t, fixes[0].Fixed)
	assert.NoDirExists(t, leftover)
	assert.DirExists(t, filepath.Join(root, "waybar"))
}

func TestConfigCheck(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		loadErr error
		want    Severity
	}{
		{"loaded", "/home/u/.config/nixdeck/config.yaml", nil, SeverityPass},
		{"defaults", "", nil, SeverityInfo},
		{"broken", "/x/config.yaml", errors.New("validating config: bad"), SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewConfigCheck(tt.path, tt.loadErr).Run(t.Context())
			assert.Equal(t, tt.want, res.Status)
		})
	}
}
