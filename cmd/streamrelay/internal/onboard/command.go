package onboard

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/superstream-live/streamrelay/cmd/streamrelay/internal"
	"github.com/superstream-live/streamrelay/pkg/config"
)

func NewOnboardCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := internal.GetConfigPath()

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			if err := config.SaveConfig(path, config.DefaultConfig()); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Printf("✓ Config written to %s\n", path)
			fmt.Println("Set channels.telegram.token and relay.endpoint, then run: streamrelay relay")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}
