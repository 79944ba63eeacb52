package rice

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/internal/rice"
)

func init() {
	Cmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:     "get <component>",
	Short:   "Print a component's config file",
	Example: `  nixdeck rice get kitty`,
	Args:    cobra.ExactArgs(1),
	RunE:    runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	ed, err := riceEditor()
	if err != nil {
		return err
	}
	return runGetWithWriter(cmd.OutOrStdout(), ed, args[0])
}

func runGetWithWriter(w io.Writer, ed *rice.Editor, name string) error {
	content, err := ed.Get(name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, content)
	return err
}
