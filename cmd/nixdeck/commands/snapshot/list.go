package snapshot

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/internal/cli"
	"github.com/thoreinstein/nixdeck/internal/snapshot"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List snapshots",
	Long: `List all snapshots in name order. Snapshots whose metadata is missing
or unreadable are shown as incomplete.`,
	Example: `  # List snapshots
  nixdeck snapshot list

  # Output as JSON
  nixdeck snapshot list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// infoOutput represents a single snapshot in JSON output.
type infoOutput struct {
	Name        string   `json:"name"`
	Created     string   `json:"created,omitempty"`
	Description string   `json:"description,omitempty"`
	Files       []string `json:"files"`
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

func runListWithWriter(ctx context.Context, w io.Writer, mgr *snapshot.Manager, asJSON bool) error {
	infos, err := mgr.ListInfo(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		return outputListJSON(w, infos)
	}
	return outputListTabular(w, infos)
}

func outputListJSON(w io.Writer, infos []snapshot.Info) error {
	output := make([]infoOutput, 0, len(infos))
	for _, info := range infos {
		out := infoOutput{Name: info.Name, Files: []string{}, Complete: info.Complete()}
		if info.Complete() {
			out.Created = info.Snapshot.Created
			out.Description = info.Snapshot.Description
			out.Files = info.Snapshot.Files
		} else if info.Err != nil {
			out.Error = info.Err.Error()
		}
		output = append(output, out)
	}
	return cli.WriteJSON(w, output)
}

func outputListTabular(w io.Writer, infos []snapshot.Info) error {
	if len(infos) == 0 {
		fmt.Fprintln(w, "No snapshots available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create one with: nixdeck snapshot create <name>")
		return nil
	}

	fmt.Fprintln(w, cli.Header("Snapshots"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\t%s\n", cli.Label("NAME"), cli.Label("CREATED"), cli.Label("FILES"))
	for _, info := range infos {
		if !info.Complete() {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", info.Name, cli.Warning("incomplete"), "-")
			continue
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d\n", cli.Name(info.Name), info.Snapshot.Created, len(info.Snapshot.Files))
	}
	return tw.Flush()
}
