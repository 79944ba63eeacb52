package fileutil

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/thoreinstein/nixdeck/internal/errors"
)

// onlyEntry asserts dir holds exactly name, i.e. no temp file leaked.
func onlyEntry(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{name}, names)
}

func TestWriteFile_Modes(t *testing.T) {
	for _, perm := range []os.FileMode{0o600, 0o644, 0o755} {
		t.Run(perm.String(), func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "picom.conf")

			require.NoError(t, WriteFile(path, []byte("backend = \"glx\";\n"), perm))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, perm, info.Mode().Perm())
			onlyEntry(t, dir, "picom.conf")
		})
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(rt, "data")
		path := filepath.Join(dir, "blob")

		if err := WriteFile(path, data, 0o600); err != nil {
			rt.Fatalf("WriteFile: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			rt.Fatalf("ReadFile: %v", err)
		}
		if string(got) != string(data) {
			rt.Fatalf("content mismatch: %d bytes written, %d read", len(data), len(got))
		}
	})
}

func TestWriteFile_MissingParent(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir", "f"), []byte("x"), 0o600)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrIO)
}

func TestWriteAtomic_FillErrorKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kitty.conf")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	boom := errors.New("encoder exploded")
	err := WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, _ = io.WriteString(w, "half-writ")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
	onlyEntry(t, dir, "kitty.conf")
}

func TestWriteAtomic_RenameOntoDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "occupied")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0o755))

	err := WriteFile(target, []byte("x"), 0o600)
	assert.ErrorIs(t, err, errors.ErrIO)
	onlyEntry(t, dir, "occupied")
}

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()

	existing := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(existing, []byte("#!/bin/sh\n"), 0o750))
	require.NoError(t, os.Chmod(existing, 0o750))
	require.NoError(t, ReplaceFile(existing, []byte("#!/bin/sh\nexit 0\n")))

	info, err := os.Stat(existing)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm(), "mode of replaced file is kept")

	fresh := filepath.Join(dir, "new.conf")
	require.NoError(t, ReplaceFile(fresh, []byte("x")))
	info, err = os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, DefaultFilePerm, info.Mode().Perm())
}

func TestReplaceFile_WritesThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	dotfiles := filepath.Join(dir, "dotfiles")
	require.NoError(t, os.MkdirAll(dotfiles, 0o755))
	target := filepath.Join(dotfiles, "kitty.conf")
	require.NoError(t, os.WriteFile(target, []byte("font=Mono\n"), 0o640))
	require.NoError(t, os.Chmod(target, 0o640))

	link := filepath.Join(dir, "kitty.conf")
	require.NoError(t, os.Symlink(target, link))

	require.NoError(t, ReplaceFile(link, []byte("font=Iosevka\n")))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink, info.Mode().Type(), "link survives")

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "font=Iosevka\n", string(got))

	info, err = os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	onlyEntry(t, dotfiles, "kitty.conf")
}

type record struct {
	Name  string   `json:"name" yaml:"name"`
	Items []string `json:"items" yaml:"items"`
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	in := record{Name: "baseline", Items: []string{"polybar", "kitty"}}

	require.NoError(t, WriteJSON(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"name\": \"baseline\"")
	assert.Equal(t, byte('\n'), data[len(data)-1])

	var out record
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestWriteJSON_Unencodable(t *testing.T) {
	dir := t.TempDir()
	err := WriteJSON(filepath.Join(dir, "bad.json"), map[string]any{"ch": make(chan int)})
	require.Error(t, err)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := record{Name: "nord", Items: []string{"gtk-3.0"}}

	require.NoError(t, WriteYAML(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: nord\nitems:\n  - gtk-3.0\n", string(data))

	var out record
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestWriteYAML_Unencodable(t *testing.T) {
	dir := t.TempDir()
	err := WriteYAML(filepath.Join(dir, "bad.yaml"), map[string]any{"fn": func() {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoding YAML")

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
