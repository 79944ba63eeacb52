package container

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/cmd/nixdeck/commands/flags"
	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/cli/prompt"
	"github.com/thoreinstein/nixdeck/internal/container"
	"github.com/thoreinstein/nixdeck/internal/errors"
)

func init() {
	Cmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load [name]",
	Short: "Load a container over the live configuration",
	Long: `Load every component recorded in the container. Each live component is
first moved aside to <component>.nixdeck-backup, replacing any older backup.

Without a name on a terminal, an interactive picker lists the available
containers. On a terminal you are asked to confirm unless --yes is given.`,
	Example: `  nixdeck container load nord`,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runLoad,
}

type loadOptions struct {
	resolver cli.NameResolver
	confirm  func(question string) (bool, error)
}

func runLoad(cmd *cobra.Command, args []string) error {
	mgr, err := manager()
	if err != nil {
		return err
	}

	opts := loadOptions{resolver: flags.Resolver()}
	if opts.resolver.Interactive && !flags.AssumeYes() {
		opts.confirm = prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm
	}
	return runLoadWithWriter(cmd.Context(), cmd.OutOrStdout(), mgr, args, opts)
}

func runLoadWithWriter(ctx context.Context, w io.Writer, mgr *container.Manager, args []string, opts loadOptions) error {
	name, err := opts.resolver.Resolve(args, "container", choices(ctx, mgr))
	if err != nil {
		return err
	}

	if opts.confirm != nil {
		ok, err := opts.confirm(fmt.Sprintf("Load container %q over the live configuration?", name))
		if err != nil {
			return errors.Wrap(err, "reading confirmation")
		}
		if !ok {
			fmt.Fprintln(w, "Load cancelled")
			return nil
		}
	}

	loaded, err := mgr.Load(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Loaded container %s\n", cli.Name(name))
	if len(loaded) > 0 {
		fmt.Fprintf(w, "  components: %s\n", strings.Join(loaded, ", "))
		fmt.Fprintf(w, "  %s\n", cli.Muted("previous versions kept as <component>"+container.BackupSuffix))
	}
	return nil
}
