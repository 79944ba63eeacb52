// Package container implements the nixdeck container commands.
package container

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/nixdeck/cmd/nixdeck/commands/flags"
	"github.com/thoreinstein/nixdeck/internal/cli/prompt"
	"github.com/thoreinstein/nixdeck/internal/container"
)

// Cmd is the parent command for container operations.
var Cmd = &cobra.Command{
	Use:   "container",
	Short: "Capture, load, and export complete desktop setups",
	Long: `Containers capture the full component set: waybar, polybar, eww, conky,
kitty, alacritty, picom, dunst, rofi, gtk-3.0, and gtk-4.0.

Loading a container moves each live component aside to
<component>.nixdeck-backup before putting the captured copy in place.
Containers can be exported as a compressed archive.`,
}

func manager() (*container.Manager, error) {
	env, err := flags.GetEnv()
	if err != nil {
		return nil, err
	}
	return env.Containers(), nil
}

// choices lists complete containers for the interactive picker.
func choices(ctx context.Context, mgr *container.Manager) func() ([]prompt.Choice, error) {
	return func() ([]prompt.Choice, error) {
		infos, err := mgr.ListInfo(ctx)
		if err != nil {
			return nil, err
		}
		list := make([]prompt.Choice, 0, len(infos))
		for _, info := range infos {
			if info.Complete() {
				list = append(list, prompt.Choice{Name: info.Name, Detail: info.Container.Created})
			}
		}
		return list, nil
	}
}
