package container

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/container"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List containers",
	Long:    `List all containers in name order with their creation time and component count.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

// infoOutput represents a single container in JSON output.
type infoOutput struct {
	Name        string   `json:"name"`
	Created     string   `json:"created,omitempty"`
	Description string   `json:"description,omitempty"`
	Components  []string `json:"components"`
	Complete    bool     `json:"complete"`
	Error       string   `json:"error,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	mgr, err := manager()
	if err != nil {
		return err
	}
	return runListWithWriter(cmd.Context(), cmd.OutOrStdout(), mgr, listJSON)
}

func runListWithWriter(ctx context.Context, w io.Writer, mgr *container.Manager, asJSON bool) error {
	infos, err := mgr.ListInfo(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		output := make([]infoOutput, 0, len(infos))
		for _, info := range infos {
			out := infoOutput{Name: info.Name, Components: []string{}, Complete: info.Complete()}
			switch {
			case info.Complete():
				out.Created = info.Container.Created
				out.Description = info.Container.Description
				out.Components = info.Container.Components
			case info.Err != nil:
				out.Error = info.Err.Error()
			}
			output = append(output, out)
		}
		return cli.WriteJSON(w, output)
	}

	if len(infos) == 0 {
		fmt.Fprintln(w, "No containers available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create one with: nixdeck container create <name>")
		return nil
	}

	fmt.Fprintln(w, cli.Header("Containers"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\t%s\n", cli.Label("NAME"), cli.Label("CREATED"), cli.Label("COMPONENTS"))
	for _, info := range infos {
		if !info.Complete() {
			fmt.Fprintf(tw, "  %s\t%s\t-\n", info.Name, cli.Warning("incomplete"))
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d\n", cli.Name(info.Name), info.Container.Created, len(info.Container.Components))
	}
	return tw.Flush()
}
