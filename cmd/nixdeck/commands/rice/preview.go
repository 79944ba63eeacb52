package rice

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/internal/rice"
)

var previewFile string

func init() {
	previewCmd.Flags().StringVarP(&previewFile, "file", "f", "", "read the candidate config from this file instead of stdin")
	Cmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview <component>",
	Short: "Show the current config next to a candidate",
	Long: `Print the current config followed by the candidate under CURRENT and NEW
headers. Nothing is written.`,
	Example: `  nixdeck rice preview kitty --file kitty.conf`,
	Args:    cobra.ExactArgs(1),
	RunE:    runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	ed, err := riceEditor()
	if err != nil {
		return err
	}
	content, err := readContent(cmd.InOrStdin(), previewFile)
	if err != nil {
		return err
	}
	return runPreviewWithWriter(cmd.OutOrStdout(), ed, args[0], content)
}

func runPreviewWithWriter(w io.Writer, ed *rice.Editor, name, candidate string) error {
	out, err := ed.Preview(name, candidate)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
