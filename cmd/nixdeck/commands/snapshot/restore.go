package snapshot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/cmd/nixdeck/commands/flags"
	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/cli/prompt"
	"github.com/thoreinstein/nixdeck/internal/errors"
	"github.com/thoreinstein/nixdeck/internal/snapshot"
)

func init() {
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [name]",
	Short: "Restore a snapshot over the live configuration",
	Long: `Restore every component recorded in the snapshot. Each live component
is first moved aside to <component>.pre-restore-backup, replacing any older
backup, then the captured copy is put in its place.

Without a name on a terminal, an interactive picker lists the available
snapshots. On a terminal you are asked to confirm unless --yes is given.`,
	Example: `  nixdeck snapshot restore before-picom

  # Pick interactively
  nixdeck snapshot restore`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

// restoreOptions carries the prompt behavior for a restore.
type restoreOptions struct {
	resolver cli.NameResolver
	confirm  func(question string) (bool, error)
}

func runRestore(cmd *cobra.Command, args []string) error {
	mgr, err := manager()
	if err != nil {
		return err
	}

	opts := restoreOptions{resolver: flags.Resolver()}
	if opts.resolver.Interactive && !flags.AssumeYes() {
		opts.confirm = prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm
	}
	return runRestoreWithWriter(cmd.Context(), cmd.OutOrStdout(), mgr, args, opts)
}

func runRestoreWithWriter(ctx context.Context, w io.Writer, mgr *snapshot.Manager, args []string, opts restoreOptions) error {
	name, err := opts.resolver.Resolve(args, "snapshot", choices(ctx, mgr))
	if err != nil {
		return err
	}

	if opts.confirm != nil {
		ok, err := opts.confirm(fmt.Sprintf("Restore snapshot %q over the live configuration?", name))
		if err != nil {
			return errors.Wrap(err, "reading confirmation")
		}
		if !ok {
			fmt.Fprintln(w, "Restore cancelled")
			return nil
		}
	}

	restored, err := mgr.Restore(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Restored snapshot %s\n", cli.Name(name))
	if len(restored) > 0 {
		fmt.Fprintf(w, "  components: %s\n", strings.Join(restored, ", "))
		fmt.Fprintf(w, "  %s\n", cli.Muted("previous versions kept as <component>"+snapshot.BackupSuffix))
	}
	return nil
}
