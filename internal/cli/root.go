package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

// NewRootCommand builds the letsretire command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "letsretire",
		Short: "Project retirement accounts year by year",
		Long: `letsretire simulates a household's accounts from today until the end of
the plan and reports, year by year, income, taxes, spending and balances.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newProjectCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("letsretire %s\n", Version)
		},
	}
}
