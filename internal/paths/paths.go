package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/nixdeck/internal/errors"
)

// AppName is used for the default data root and the config file directory.
const AppName = "nixdeck"

// Subdirectories of the data root.
const (
	SnapshotsDirName  = "snapshots"
	ContainersDirName = "containers"
	LoadoutsDirName   = "loadouts"
	ThemesDirName     = "themes"
)

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return errors.IO(os.MkdirAll(path, perm), "creating directory")
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		msg := "empty $HOME"
		if err != nil {
			msg = err.Error()
		}
		return "", errors.Wrap(ErrHomeDirNotFound, msg)
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigFileDir returns the directory searched for nixdeck's own config file.
// Returns: <ConfigHome>/nixdeck/
func ConfigFileDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// DefaultRootDir returns the default data root, ~/.nixdeck.
func DefaultRootDir() (string, error) {
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+AppName), nil
}

// DefaultComponentRoot returns the directory that holds live component
// configuration, the XDG config home.
func DefaultComponentRoot() (string, error) {
	if dir := ConfigHome(); dir != "" {
		return dir, nil
	}
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// SnapshotsDir returns <root>/snapshots.
func SnapshotsDir(root string) string {
	return filepath.Join(root, SnapshotsDirName)
}

// ContainersDir returns <root>/containers.
func ContainersDir(root string) string {
	return filepath.Join(root, ContainersDirName)
}

// ExpandHome expands a leading ~ to the user's home directory.
// Paths without a leading ~ are returned unchanged.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		// ~user forms are not supported
		return path, nil
	}

	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
