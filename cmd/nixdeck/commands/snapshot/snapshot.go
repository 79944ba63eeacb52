// Package snapshot implements the nixdeck snapshot commands.
package snapshot

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/cmd/nixdeck/commands/flags"
	"github.com/thoreinstein/nixdeck/internal/cli/prompt"
	"github.com/thoreinstein/nixdeck/internal/snapshot"
)

// Cmd is the parent command for snapshot operations.
var Cmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"snap"},
	Short:   "Capture and restore the critical desktop components",
	Long: `Snapshots capture the six components most often broken by configuration
experiments: waybar, polybar, eww, kitty, alacritty, and picom.

Restoring a snapshot moves each live component aside to
<component>.pre-restore-backup before putting the captured copy in place.`,
}

func manager() (*snapshot.Manager, error) {
	env, err := flags.GetEnv()
	if err != nil {
		return nil, err
	}
	return env.Snapshots(), nil
}

// choices lists complete snapshots for the interactive picker.
func choices(ctx context.Context, mgr *snapshot.Manager) func() ([]prompt.Choice, error) {
	return func() ([]prompt.Choice, error) {
		infos, err := mgr.ListInfo(ctx)
		if err != nil {
			return nil, err
		}
		list := make([]prompt.Choice, 0, len(infos))
		for _, info := range infos {
			if !info.Complete() {
				continue
			}
			list = append(list, prompt.Choice{Name: info.Name, Detail: info.Snapshot.Created})
		}
		return list, nil
	}
}
