package snapshot

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/snapshot"
)

func init() {
	Cmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a snapshot",
	Long:    `Remove a snapshot directory and everything in it. Live configuration is not touched.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	mgr, err := manager()
	if err != nil {
		return err
	}
	return runDeleteWithWriter(cmd.Context(), cmd.OutOrStdout(), mgr, args[0])
}

func runDeleteWithWriter(ctx context.Context, w io.Writer, mgr *snapshot.Manager, name string) error {
	if err := mgr.Delete(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted snapshot %s\n", cli.Name(name))
	return nil
}
