package rice

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/component"
	"github.com/thoreinstein/nixdeck/internal/rice"
)

func init() {
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List editable components and their config files",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	ed, err := riceEditor()
	if err != nil {
		return err
	}
	return runListWithWriter(cmd.OutOrStdout(), ed)
}

func runListWithWriter(w io.Writer, ed *rice.Editor) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", cli.Label("COMPONENT"), cli.Label("FILE"), cli.Label("STATUS"))
	for _, name := range component.Editable() {
		path, err := ed.Path(name)
		if err != nil {
			return err
		}
		status := cli.Name("present")
		if _, err := os.Stat(path); err != nil {
			status = cli.Muted("missing")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, path, status)
	}
	return tw.Flush()
}
