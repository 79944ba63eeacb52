package rice

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/rice"
)

var applyFile string

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "read the new config from this file instead of stdin")
	Cmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply <component>",
	Short: "Replace a component's config file",
	Long: `Replace the component's config file with new content read from --file or
stdin. The current file is copied to <file>.nixdeck-backup first, and the
replacement keeps the file's permissions. The file must already exist.`,
	Example: `  nixdeck rice apply kitty --file kitty.conf
  cat kitty.conf | nixdeck rice apply kitty`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	ed, err := riceEditor()
	if err != nil {
		return err
	}
	content, err := readContent(cmd.InOrStdin(), applyFile)
	if err != nil {
		return err
	}
	return runApplyWithWriter(cmd.OutOrStdout(), ed, args[0], content)
}

func runApplyWithWriter(w io.Writer, ed *rice.Editor, name, content string) error {
	if err := ed.Apply(name, content); err != nil {
		return err
	}
	path, err := ed.Path(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Applied %s config to %s\n", cli.Name(name), path)
	fmt.Fprintf(w, "  %s\n", cli.Muted("previous version kept as "+path+rice.BackupSuffix))
	return nil
}
