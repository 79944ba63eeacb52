package cli

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/nixdeck/internal/errors"
)

// Output styles. fatih/color drops the escapes when stdout is not a
// terminal or NO_COLOR is set.
var (
	Header  = color.New(color.FgCyan, color.Bold).SprintFunc()
	Label   = color.New(color.Bold).SprintFunc()
	Name    = color.New(color.FgGreen).SprintFunc()
	Muted   = color.New(color.FgHiBlack).SprintFunc()
	Warning = color.New(color.FgYellow).SprintFunc()
	Failure = color.New(color.FgRed).SprintFunc()
)

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding output")
}

// Truncate shortens s to maxLen characters, adding "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
