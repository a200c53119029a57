package app

import (
	"github.com/spf13/cobra"

	"github.com/zjy-dev/covreport/internal/logger"
)

// NewCovReportCommand creates the root command for the covreport tool.
func NewCovReportCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "covreport",
		Short: "Analyze and compare Go test coverage reports.",
		Long: `covreport merges Go coverage profiles, generates readable reports,
and compares coverage between test runs.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.Default().SetLevel(logger.DEBUG)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.AddCommand(NewReportCommand())
	cmd.AddCommand(NewDiffCommand())

	return cmd
}
