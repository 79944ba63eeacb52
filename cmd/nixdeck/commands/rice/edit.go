package rice

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/editor"
	"github.com/thoreinstein/nixdeck/internal/rice"
)

// openEditor is replaced in tests.
var openEditor = editor.Open

func init() {
	Cmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit <component>",
	Short: "Open a component's config file in $EDITOR",
	Long: `Back up the component's config file to <file>.nixdeck-backup, then open it
in your editor. Uses $EDITOR, then $VISUAL, then nano or vi.`,
	Example: `  nixdeck rice edit waybar
  EDITOR="code --wait" nixdeck rice edit kitty`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	ed, err := riceEditor()
	if err != nil {
		return err
	}
	return runEditWithWriter(cmd.Context(), cmd.OutOrStdout(), ed, args[0])
}

func runEditWithWriter(ctx context.Context, w io.Writer, ed *rice.Editor, name string) error {
	backup, err := ed.Backup(name)
	if err != nil {
		return err
	}
	path, err := ed.Path(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Location: %s\n", path)
	fmt.Fprintf(w, "  %s\n", cli.Muted("backup: "+backup))
	return openEditor(ctx, path)
}
