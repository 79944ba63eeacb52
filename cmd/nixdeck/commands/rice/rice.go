// Package rice implements the nixdeck rice commands, which read and replace
// the main config file of a single component.
package rice

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/cmd/nixdeck/commands/flags"
	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/rice"
	"github.com/thoreinstein/nixdeck/pkg/fileutil"
)

// Cmd is the parent command for single-component config operations.
var Cmd = &cobra.Command{
	Use:   "rice",
	Short: "Read and replace a component's main config file",
	Long: `Work with the main config file of one component, e.g. kitty/kitty.conf
or waybar/config. Every replacement first copies the current file to
<file>.nixdeck-backup.`,
}

func riceEditor() (*rice.Editor, error) {
	env, err := flags.GetEnv()
	if err != nil {
		return nil, err
	}
	return env.Editor(), nil
}

// readContent returns the candidate config from path, or from stdin when
// path is empty.
func readContent(stdin io.Reader, path string) (string, error) {
	if path != "" {
		data, err := fileutil.ReadFile(path)
		return string(data), err
	}

	data, err := fileutil.ReadLimited(stdin)
	if err != nil {
		return "", errors.Wrap(err, "reading stdin")
	}
	return string(data), nil
}
