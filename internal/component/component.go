// Package component is the registry of desktop configuration components
// nixdeck knows about.
//
// Two tables live here and are deliberately different in shape. The editor
// table maps a component to a single config file; the capture table lists
// whole config directories used by snapshots and containers.
package component

import (
	"path/filepath"
	"slices"

	"github.com/thoreinstein/nixdeck/internal/errors"
)

// Component names.
const (
	Waybar    = "waybar"
	Polybar   = "polybar"
	Eww       = "eww"
	Conky     = "conky"
	Kitty     = "kitty"
	Alacritty = "alacritty"
	Picom     = "picom"
	Dunst     = "dunst"
	Rofi      = "rofi"
	GTK3      = "gtk-3.0"
	GTK4      = "gtk-4.0"
)

// editorFiles maps a component to its main config file, relative to the
// component root.
var editorFiles = map[string]string{
	Waybar:    "waybar/config",
	Polybar:   "polybar/config.ini",
	Eww:       "eww/eww.yuck",
	Conky:     "conky/conky.conf",
	Kitty:     "kitty/kitty.conf",
	Alacritty: "alacritty/alacritty.yml",
	Picom:     "picom/picom.conf",
	Dunst:     "dunst/dunstrc",
	Rofi:      "rofi/config.rasi",
}

// captureSet is the ordered list of directories a container captures.
var captureSet = []string{
	Waybar,
	Polybar,
	Eww,
	Conky,
	Kitty,
	Alacritty,
	Picom,
	Dunst,
	Rofi,
	GTK3,
	GTK4,
}

// criticalSet is the ordered subset a snapshot captures.
var criticalSet = []string{
	Waybar,
	Polybar,
	Eww,
	Kitty,
	Alacritty,
	Picom,
}

// CaptureSet returns the eleven component directories captured by containers.
func CaptureSet() []string {
	return slices.Clone(captureSet)
}

// CriticalSet returns the six component directories captured by snapshots.
func CriticalSet() []string {
	return slices.Clone(criticalSet)
}

// Editable returns the components with an editor file mapping, sorted.
func Editable() []string {
	names := make([]string, 0, len(editorFiles))
	for name := range editorFiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Valid reports whether name is in the closed component vocabulary.
func Valid(name string) bool {
	return slices.Contains(captureSet, name)
}

// EditorPath resolves a component to its config file under root.
// Returns ErrUnknownComponent for names without an editor mapping.
func EditorPath(root, name string) (string, error) {
	rel, ok := editorFiles[name]
	if !ok {
		return "", errors.Wrapf(errors.ErrUnknownComponent, "%q", name)
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}

// Dir returns the live config directory for a capture component under root.
// Returns ErrUnknownComponent for names outside the capture set.
func Dir(root, name string) (string, error) {
	if !Valid(name) {
		return "", errors.Wrapf(errors.ErrUnknownComponent, "%q", name)
	}
	return filepath.Join(root, name), nil
}
