package container

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/container"
)

func init() {
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Capture every known component under a new name",
	Long: `Copy the live configuration of every known component into a new
container. Components that are not present are skipped.`,
	Example: `  nixdeck container create nord

  See Also:
    nixdeck container load   - Load a container
    nixdeck container export - Archive a container`,
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

func runCreateWithWriter(ctx context.Context, w io.Writer, mgr *container.Manager, name string) error {
	c, err := mgr.Create(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Created container %s\n", cli.Name(c.Name))
	if len(c.Components) == 0 {
		fmt.Fprintf(w, "  %s\n", cli.Muted("(no components present)"))
		return nil
	}
	fmt.Fprintf(w, "  components: %s\n", strings.Join(c.Components, ", "))
	return nil
}
