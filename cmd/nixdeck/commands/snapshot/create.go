package snapshot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/snapshot"
)

func init() {
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Capture the critical components under a new name",
	Long: `Copy the live configuration of the critical components into a new
snapshot. Components that are not present are skipped. Creating a snapshot
with a name that already exists fails and leaves the existing one intact.`,
	Example: `  nixdeck snapshot create before-picom

  See Also:
    nixdeck snapshot restore - Restore a snapshot
    nixdeck snapshot list    - List snapshots`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	mgr, err := manager()
	if err != nil {
		return err
	}
	return runCreateWithWriter(cmd.Context(), cmd.OutOrStdout(), mgr, args[0])
}

func runCreateWithWriter(ctx context.Context, w io.Writer, mgr *snapshot.Manager, name string) error {
	snap, err := mgr.Create(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Created snapshot %s\n", cli.Name(snap.Name))
	if len(snap.Files) == 0 {
		fmt.Fprintf(w, "  %s\n", cli.Muted("(no components present)"))
		return nil
	}
	fmt.Fprintf(w, "  components: %s\n", strings.Join(snap.Files, ", "))
	return nil
}
