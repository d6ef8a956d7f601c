package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "lantern"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Lantern - terminal client for the Prism Grail game",
		Long:          "Lantern is a terminal client for the Prism Grail narrative game.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("server", "", "game server base URL (overrides config)")

	cmd.AddCommand(
		NewLoginCmd(),
		NewSlotsCmd(),
		NewPlayCmd(),
		NewLogCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd(Version).Execute()
}
