// Package rice reads and rewrites the main config file of a single
// desktop component.
package rice

import (
	"log/slog"
	"os"
	"strings"

	"github.com/thoreinstein/nixdeck/internal/component"
	"github.com/thoreinstein/nixdeck/internal/copier"
	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/pkg/fileutil"
)

// BackupSuffix is appended to a config file path to form its backup.
const BackupSuffix = ".nixdeck-backup"

// Preview section headers.
const (
	currentHeader = "=== CURRENT ==="
	newHeader     = "=== NEW ==="
)

// Editor edits component config files under a component root.
type Editor struct {
	root   string
	logger *slog.Logger
}

// NewEditor returns an Editor for files under componentRoot.
func NewEditor(componentRoot string, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{root: componentRoot, logger: logger}
}

// Path resolves the config file for name.
func (e *Editor) Path(name string) (string, error) {
	return component.EditorPath(e.root, name)
}

// Get returns the current content of name's config file.
func (e *Editor) Get(name string) (string, error) {
	path, err := e.Path(name)
	if err != nil {
		return "", err
	}
	if err := requireFile(name, path); err != nil {
		return "", err
	}

	data, err := fileutil.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s config", name)
	}
	return string(data), nil
}

// Backup copies name's config file to its backup path, replacing an older
// backup. Fails with errors.ErrNotFound if there is no file to back up.
func (e *Editor) Backup(name string) (string, error) {
	path, err := e.Path(name)
	if err != nil {
		return "", err
	}
	if err := requireFile(name, path); err != nil {
		return "", err
	}

	backup := path + BackupSuffix
	if err := copier.CopyFile(path, backup); err != nil {
		return "", errors.Wrapf(err, "backing up %s config", name)
	}
	e.logger.Debug("backed up config", "component", name, "backup", backup)
	return backup, nil
}

// Apply backs up name's config file and replaces its content. The file
// must already exist; the write is atomic and keeps the file's mode.
func (e *Editor) Apply(name, content string) error {
	if len(content) > fileutil.MaxFileSize {
		return fileutil.ErrFileTooLarge
	}

	if _, err := e.Backup(name); err != nil {
		return err
	}

	path, err := e.Path(name)
	if err != nil {
		return err
	}
	if err := fileutil.ReplaceFile(path, []byte(content)); err != nil {
		return errors.Wrapf(err, "writing %s config", name)
	}

	e.logger.Info("config applied", "component", name, "bytes", len(content))
	return nil
}

// Preview returns the current content and candidate one after the other
// under section headers. No diff is computed.
func (e *Editor) Preview(name, candidate string) (string, error) {
	current, err := e.Get(name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(current) + len(candidate) + len(currentHeader) + len(newHeader) + 4)
	b.WriteString(currentHeader)
	b.WriteByte('\n')
	b.WriteString(current)
	b.WriteString("\n\n")
	b.WriteString(newHeader)
	b.WriteByte('\n')
	b.WriteString(candidate)
	return b.String(), nil
}

func requireFile(name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "%s config %s", name, path)
		}
		return errors.IOf(err, "checking %s config", name)
	}
	if info.IsDir() {
		return errors.IOf(errors.Newf("%s is a directory", path), "reading %s config", name)
	}
	return nil
}
