package container

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/nixdeck/internal/component"
	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/logging"
	"github.com/thoreinstein/nixdeck/internal/runner"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	err   error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (*runner.Result, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return &runner.Result{}, nil
}

func setup(t *testing.T, opts ...Option) (*Manager, string) {
	t.Helper()
	tmp := t.TempDir()
	configRoot := filepath.Join(tmp, "config")
	require.NoError(t, os.MkdirAll(configRoot, 0o755))
	opts = append([]Option{WithLogger(logging.ForTest(t))}, opts...)
	return NewManager(filepath.Join(tmp, "nixdeck"), configRoot, opts...), configRoot
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCreate_CapturesFullSet(t *testing.T) {
	m, configRoot := setup(t)
	for _, c := range component.CaptureSet() {
		writeFile(t, filepath.Join(configRoot, c, "file"), c)
	}
	writeFile(t, filepath.Join(configRoot, "nvim", "init.lua"), "unrelated")

	c, err := m.Create(t.Context(), "full")
	require.NoError(t, err)
	assert.Equal(t, component.CaptureSet(), c.Components)

	for _, comp := range component.CaptureSet() {
		assert.Equal(t, comp, readFile(t, filepath.Join(c.Path, PayloadDir, comp, "file")))
	}
	assert.NoDirExists(t, filepath.Join(c.Path, PayloadDir, "nvim"))
	assert.FileExists(t, filepath.Join(c.Path, "metadata.json"))
}

func TestCreate_Duplicate(t *testing.T) {
	m, _ := setup(t)

	_, err := m.Create(t.Context(), "c1")
	require.NoError(t, err)

	_, err = m.Create(t.Context(), "c1")
	assert.True(t, errors.Is(err, errors.ErrAlreadyExists))
}

func TestLoad_RoundTrip(t *testing.T) {
	m, configRoot := setup(t)
	writeFile(t, filepath.Join(configRoot, "gtk-3.0", "settings.ini"), "[Settings]\ngtk-theme-name=Adwaita\n")
	writeFile(t, filepath.Join(configRoot, "rofi", "config.rasi"), "configuration {}")

	_, err := m.Create(t.Context(), "c1")
	require.NoError(t, err)

	writeFile(t, filepath.Join(configRoot, "gtk-3.0", "settings.ini"), "changed")

	loaded, err := m.Load(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"rofi", "gtk-3.0"}, loaded)

	assert.Equal(t, "[Settings]\ngtk-theme-name=Adwaita\n", readFile(t, filepath.Join(configRoot, "gtk-3.0", "settings.ini")))
	assert.Equal(t, "changed", readFile(t, filepath.Join(configRoot, "gtk-3.0"+BackupSuffix, "settings.ini")))
	assert.Equal(t, "configuration {}", readFile(t, filepath.Join(configRoot, "rofi", "config.rasi")))
}

func TestLoad_IgnoresUnrecordedCopies(t *testing.T) {
	m, configRoot := setup(t)
	writeFile(t, filepath.Join(configRoot, "kitty", "kitty.conf"), "captured")

	c, err := m.Create(t.Context(), "c1")
	require.NoError(t, err)

	// A directory that appeared in the payload after capture is not in
	// the metadata and must not be loaded.
	writeFile(t, filepath.Join(c.Path, PayloadDir, "dunst", "dunstrc"), "stray")
	writeFile(t, filepath.Join(configRoot, "dunst", "dunstrc"), "live")

	loaded, err := m.Load(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"kitty"}, loaded)
	assert.Equal(t, "live", readFile(t, filepath.Join(configRoot, "dunst", "dunstrc")))
	assert.NoDirExists(t, filepath.Join(configRoot, "dunst"+BackupSuffix))
}

func TestLoad_Errors(t *testing.T) {
	m, _ := setup(t)

	_, err := m.Load(t.Context(), "ghost")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	require.NoError(t, os.MkdirAll(filepath.Join(m.Dir(), "partial", PayloadDir, "kitty"), 0o755))
	_, err = m.Load(t.Context(), "partial")
	assert.True(t, errors.Is(err, errors.ErrIncomplete))
}

func TestListAndDelete(t *testing.T) {
	m, _ := setup(t)

	names, err := m.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, n := range []string{"work", "gaming"} {
		_, err := m.Create(t.Context(), n)
		require.NoError(t, err)
	}

	infos, err := m.ListInfo(t.Context())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "gaming", infos[0].Name)
	assert.True(t, infos[0].Complete())

	require.NoError(t, m.Delete(t.Context(), "gaming"))
	names, err = m.List(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, names)

	err = m.Delete(t.Context(), "gaming")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestGet(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 0, time.Local) }
	m, configRoot := setup(t, WithClock(clock))
	writeFile(t, filepath.Join(configRoot, "conky", "conky.conf"), "x")

	_, err := m.Create(t.Context(), "c1")
	require.NoError(t, err)

	c, err := m.Get(t.Context(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.Name)
	assert.Equal(t, clock().Format(time.RFC3339), c.Created)
	assert.Equal(t, []string{"conky"}, c.Components)
}

func TestExport_InvokesArchiver(t *testing.T) {
	fake := &fakeRunner{}
	m, _ := setup(t, WithRunner(fake), WithArchiver("bsdtar"))

	_, err := m.Create(t.Context(), "c1")
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "c1.tar.gz")
	require.NoError(t, m.Export(t.Context(), "c1", archive))

	require.Len(t, fake.calls, 1)
	assert.Equal(t, "bsdtar", fake.calls[0].name)
	assert.Equal(t, []string{"-czf", archive, "-C", m.Dir(), "c1"}, fake.calls[0].args)
}

func TestExport_NotFound(t *testing.T) {
	fake := &fakeRunner{}
	m, _ := setup(t, WithRunner(fake))

	err := m.Export(t.Context(), "ghost", filepath.Join(t.TempDir(), "x.tar.gz"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Empty(t, fake.calls)
}

func TestExport_ToolFailure(t *testing.T) {
	failure := errors.Mark(&runner.Failure{Tool: "tar", ExitCode: 2, Stderr: "tar: /nope: Cannot open: No such file or directory\n"}, errors.ErrSubprocess)
	m, _ := setup(t, WithRunner(&fakeRunner{err: failure}))

	_, err := m.Create(t.Context(), "c1")
	require.NoError(t, err)

	err = m.Export(t.Context(), "c1", "/nope/c1.tar.gz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSubprocess))
	assert.Contains(t, err.Error(), "tar: /nope: Cannot open: No such file or directory")

	var f *runner.Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, 2, f.ExitCode)
}

func TestExport_Timeout(t *testing.T) {
	m, _ := setup(t, WithRunner(&fakeRunner{err: errors.Wrap(errors.ErrTimeout, "tar after 1s")}))

	_, err := m.Create(t.Context(), "c1")
	require.NoError(t, err)

	err = m.Export(t.Context(), "c1", filepath.Join(t.TempDir(), "c1.tar.gz"))
	assert.True(t, errors.Is(err, errors.ErrTimeout))
}

func TestExport_RealTar(t *testing.T) {
	if _, err := exec.LookPath("tar"); err != nil {
		t.Skip("tar not installed")
	}

	m, configRoot := setup(t, WithRunner(runner.New(30*time.Second)))
	writeFile(t, filepath.Join(configRoot, "kitty", "kitty.conf"), "font=Mono")

	_, err := m.Create(t.Context(), "c1")
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "c1.tar.gz")
	require.NoError(t, m.Export(t.Context(), "c1", archive))

	f, err := os.Open(archive)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	var entries []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		entries = append(entries, filepath.Clean(hdr.Name))
	}

	assert.True(t, slices.Contains(entries, filepath.Join("c1", "metadata.json")), entries)
	assert.True(t, slices.Contains(entries, filepath.Join("c1", PayloadDir, "kitty", "kitty.conf")), entries)
}
