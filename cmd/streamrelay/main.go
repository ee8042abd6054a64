package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/superstream-live/streamrelay/cmd/streamrelay/internal"
	"github.com/superstream-live/streamrelay/cmd/streamrelay/internal/onboard"
	"github.com/superstream-live/streamrelay/cmd/streamrelay/internal/relay"
	"github.com/superstream-live/streamrelay/cmd/streamrelay/internal/version"
)

func NewStreamrelayCommand() *cobra.Command {
	short := fmt.Sprintf("%s streamrelay - Chat-to-stream relay v%s\n\n", internal.Logo, internal.GetVersion())

	cmd := &cobra.Command{
		Use:     "streamrelay",
		Short:   short,
		Example: "streamrelay relay",
	}

	cmd.AddCommand(
		onboard.NewOnboardCommand(),
		relay.NewRelayCommand(),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	cmd := NewStreamrelayCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
