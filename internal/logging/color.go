package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ColorEnvVar overrides color detection: "always", "never" or "auto".
const ColorEnvVar = "NIXDECK_COLOR"

// ColorEnabled reports whether console output to w should be colored.
// NIXDECK_COLOR wins; otherwise NO_COLOR and TERM=dumb disable color and
// w must be a terminal.
func ColorEnabled(w io.Writer) bool {
	return colorEnabled(os.Getenv, isTerminal(w))
}

func colorEnabled(getenv func(string) string, tty bool) bool {
	switch getenv(ColorEnvVar) {
	case "always":
		return true
	case "never":
		return false
	}
	if getenv("NO_COLOR") != "" || getenv("TERM") == "dumb" {
		return false
	}
	return tty
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
