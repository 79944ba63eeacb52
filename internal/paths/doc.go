// Package paths resolves the directories nixdeck works with.
//
// Two roots matter:
//
//   - the data root (default ~/.nixdeck) holding snapshots/, containers/,
//     loadouts/ and themes/
//   - the component root (default the XDG config home, ~/.config on Linux)
//     holding the live configuration of waybar, kitty, rofi and friends
//
// Both are resolved once at startup and injected into the managers.
// Failure to find a home directory is reported as [ErrHomeDirNotFound]
// rather than aborting the process.
//
// The package wraps github.com/adrg/xdg for XDG Base Directory compliance.
package paths
