package container

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/container"
)

func init() {
	Cmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <name> <archive>",
	Short: "Archive a container as a gzip-compressed tarball",
	Long: `Write the container directory to a gzip-compressed tar archive using the
configured archiver (default: tar). The archive holds a single top-level
directory named after the container. If the archiver fails, its error
output is shown as-is.`,
	Example: `  nixdeck container export nord ~/nord.tar.gz`,
	Args:    cobra.ExactArgs(2),
	RunE:    runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	mgr, err := manager()
	if err != nil {
		return err
	}
	return runExportWithWriter(cmd.Context(), cmd.OutOrStdout(), mgr, args[0], args[1])
}

func runExportWithWriter(ctx context.Context, w io.Writer, mgr *container.Manager, name, archive string) error {
	if err := mgr.Export(ctx, name, archive); err != nil {
		return err
	}
	fmt.Fprintf(w, "Exported container %s to %s\n", cli.Name(name), archive)
	return nil
}
