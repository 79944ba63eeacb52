package copier

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/thoreinstein/nixdeck/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCopyTree_Directory(t *testing.T) {
	src := filepath.Join(t.TempDir(), "waybar")
	writeFile(t, filepath.Join(src, "config"), `{"layer": "top"}`)
	writeFile(t, filepath.Join(src, "style.css"), "* { font-family: Mono; }")
	writeFile(t, filepath.Join(src, "scripts", "nested", "bat.sh"), "#!/bin/sh\n")

	dst := filepath.Join(t.TempDir(), "missing", "ancestors", "waybar")
	require.NoError(t, CopyTree(t.Context(), src, dst))

	assertContent(t, filepath.Join(dst, "config"), `{"layer": "top"}`)
	assertContent(t, filepath.Join(dst, "style.css"), "* { font-family: Mono; }")
	assertContent(t, filepath.Join(dst, "scripts", "nested", "bat.sh"), "#!/bin/sh\n")
}

func assertContent(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	require.NoError(t, err, path)
	assert.Equal(t, want, string(got), path)
}

func TestCopyTree_EmptyDirectory(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	require.NoError(t, CopyTree(t.Context(), src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCopyTree_SingleFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "kitty.conf")
	writeFile(t, src, "font=Mono")
	require.NoError(t, os.Chmod(src, 0o600))

	dst := filepath.Join(t.TempDir(), "a", "b", "kitty.conf")
	require.NoError(t, CopyTree(t.Context(), src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "font=Mono", string(got))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCopyTree_OverwritesExistingFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "picom.conf")
	writeFile(t, src, "new")
	dst := filepath.Join(t.TempDir(), "picom.conf")
	writeFile(t, dst, "old content that is longer")

	require.NoError(t, CopyTree(t.Context(), src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestCopyTree_FollowsSymlinks(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "shared.rasi")
	writeFile(t, target, "theme")

	src := filepath.Join(base, "rofi")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.Symlink(target, filepath.Join(src, "theme.rasi")))

	dst := filepath.Join(t.TempDir(), "rofi")
	require.NoError(t, CopyTree(t.Context(), src, dst))

	info, err := os.Lstat(filepath.Join(dst, "theme.rasi"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), "symlink should be copied as a regular file")
}

func TestCopyTree_MissingSource(t *testing.T) {
	err := CopyTree(t.Context(), filepath.Join(t.TempDir(), "absent"), filepath.Join(t.TempDir(), "dst"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIO))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCopyTree_DanglingSymlinkAborts(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.conf"), "a")
	require.NoError(t, os.Symlink(filepath.Join(src, "gone"), filepath.Join(src, "b.conf")))

	dst := filepath.Join(t.TempDir(), "out")
	err := CopyTree(t.Context(), src, dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIO))
}

func TestCopyTree_Cancelled(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a"), "a")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := CopyTree(ctx, src, filepath.Join(t.TempDir(), "out"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCopyTree_ContentProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base, err := os.MkdirTemp("", "copier-prop-*")
		if err != nil {
			rt.Fatalf("temp dir: %v", err)
		}
		defer os.RemoveAll(base)

		src := filepath.Join(base, "src")
		files := rapid.MapOfN(
			rapid.StringMatching(`[a-z]{1,8}(/[a-z]{1,8}){0,2}`),
			rapid.SliceOf(rapid.Byte()),
			1, 8,
		).Draw(rt, "files")

		written := map[string][]byte{}
		for rel, data := range files {
			path := filepath.Join(src, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				// a file already occupies this directory name
				continue
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				continue
			}
			written[rel] = data
		}

		dst := filepath.Join(base, "dst")
		if err := CopyTree(context.Background(), src, dst); err != nil {
			rt.Fatalf("CopyTree() error = %v", err)
		}

		for rel, want := range written {
			got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(rel)))
			if err != nil {
				rt.Fatalf("reading %s: %v", rel, err)
			}
			if string(got) != string(want) {
				rt.Fatalf("%s: content mismatch", rel)
			}
		}
	})
}
