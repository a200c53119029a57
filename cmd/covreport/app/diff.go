package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/covreport/internal/config"
	"github.com/zjy-dev/covreport/internal/cover"
	"github.com/zjy-dev/covreport/internal/render"
)

// NewDiffCommand creates the "diff" subcommand.
func NewDiffCommand() *cobra.Command {
	var (
		width   int
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "diff <before-report> <after-report>",
		Short: "Show function-level coverage differences between two text reports.",
		Long: `This command compares two per-function coverage reports (the output
of 'go tool cover -func') and prints the functions whose coverage changed,
sorted by the size of the change, followed by the functions that appeared
in or disappeared from the second report.

Examples:
  # Compare two saved reports
  covreport diff before.coverprofile.txt after.coverprofile.txt

  # Narrow the table for smaller terminals
  covreport diff before.txt after.txt --width 80`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if width == 0 {
				width = cfg.Display.Width
			}

			before, err := cover.ParseFile(args[0])
			if err != nil {
				return err
			}
			after, err := cover.ParseFile(args[1])
			if err != nil {
				return err
			}

			renderer := render.New(render.Options{Width: width, Color: !noColor})
			renderer.FuncDiff(os.Stdout, cover.Diff(before, after))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Function column width of the diff table (0 uses the configured width)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors in the output")

	return cmd
}
