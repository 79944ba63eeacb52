// Package fileutil holds the small file helpers shared by the capture store,
// the rice editor and the config command.
package fileutil

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/nixdeck/internal/errors"
)

// DefaultFilePerm is used when no mode is given and nothing is replaced.
const DefaultFilePerm os.FileMode = 0o600

// WriteAtomic streams fill into a temp file next to path and renames it
// over path once fill, chmod and fsync succeed. Readers see either the old
// file or the complete new one. The parent directory must exist.
func WriteAtomic(path string, perm os.FileMode, fill func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".nixdeck-atomic-*.tmp")
	if err != nil {
		return errors.IOf(err, "creating temp file for %s", path)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := fill(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return errors.IO(err, "setting file mode")
	}
	if err := tmp.Sync(); err != nil {
		return errors.IO(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.IO(err, "closing temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		committed = true
		return errors.IOf(err, "replacing %s", path)
	}
	committed = true
	return nil
}

// WriteFile atomically writes data to path with perm.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	return WriteAtomic(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return errors.IO(err, "writing temp file")
	})
}

// ReplaceFile atomically rewrites path, keeping the mode of the file being
// replaced. A new file gets DefaultFilePerm. When path is a symlink the
// link is left in place and its target is rewritten.
func ReplaceFile(path string, data []byte) error {
	target, err := filepath.EvalSymlinks(path)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		target = path
	default:
		return errors.IOf(err, "resolving %s", path)
	}

	perm := DefaultFilePerm
	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}
	return WriteFile(target, data, perm)
}

// WriteJSON atomically writes v as two-space indented JSON.
func WriteJSON(path string, v any) error {
	return WriteAtomic(path, DefaultFilePerm, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encoding JSON")
	})
}

// WriteYAML atomically writes v as YAML with two-space indentation.
func WriteYAML(path string, v any) error {
	return WriteAtomic(path, DefaultFilePerm, func(w io.Writer) (err error) {
		// yaml.v3 panics on values it cannot represent, such as funcs.
		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf("encoding YAML: %v", r)
			}
		}()
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")
	})
}
