package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/covreport/internal/analyze"
	"github.com/zjy-dev/covreport/internal/config"
	"github.com/zjy-dev/covreport/internal/covtool"
	"github.com/zjy-dev/covreport/internal/exec"
	"github.com/zjy-dev/covreport/internal/logger"
	"github.com/zjy-dev/covreport/internal/render"
)

// NewReportCommand creates the "report" subcommand.
func NewReportCommand() *cobra.Command {
	var (
		clean  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "report <coverage-dir> [compare-dir]",
		Short: "Process a coverage directory and print a summary, or compare two directories.",
		Long: `This command merges the coverage artifacts found in a directory
(runtime covmeta.* files and *.coverprofile files), generates readable text
and HTML reports, and prints the aggregate coverage.

With a second directory the two snapshots are compared: the output tracks
the total coverage change and the files that moved into or out of zero
coverage.

Examples:
  # Summarize one coverage directory
  covreport report ./coverage

  # Compare two snapshots and save the comparison as JSON
  covreport report ./coverage-before ./coverage-after -o comparison.json

  # Remove the generated intermediate files afterwards
  covreport report ./coverage --clean`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := logger.Default()
			runner := covtool.NewGoToolRunner(exec.NewCommandExecutor(), cfg.Tools.Gocovmerge)
			renderer := render.New(render.Options{Width: cfg.Display.Width, Color: true})

			if len(args) == 2 {
				return runComparison(args[0], args[1], runner, cfg, log, renderer, output, clean)
			}
			return runSingle(args[0], runner, cfg, log, renderer, output, clean)
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "Clean generated files after processing")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file for the detailed report (JSON)")

	return cmd
}

func runSingle(dir string, runner covtool.Runner, cfg *config.Config, log *logger.Logger, renderer *render.Renderer, output string, clean bool) error {
	analyzer, err := analyze.New(dir, runner, cfg, log)
	if err != nil {
		return err
	}

	if err := analyzer.Process(); err != nil {
		return err
	}

	renderer.SummaryLine(os.Stdout, analyzer.Report().Summarize(), "")

	if output != "" {
		if err := render.WriteJSON(output, analyzer.Report().Summarize()); err != nil {
			return err
		}
		fmt.Printf("Detailed report written to %s\n", output)
	}

	if clean {
		return analyzer.Clean()
	}
	return nil
}

func runComparison(dir1, dir2 string, runner covtool.Runner, cfg *config.Config, log *logger.Logger, renderer *render.Renderer, output string, clean bool) error {
	comparator, err := analyze.NewComparator(dir1, dir2, runner, cfg, log)
	if err != nil {
		return err
	}

	result, err := comparator.Compare()
	if err != nil {
		return err
	}

	renderer.ComparisonSummary(os.Stdout, result)

	if output != "" {
		if err := render.WriteJSON(output, result); err != nil {
			return err
		}
		fmt.Printf("Detailed report written to %s\n", output)
	}

	if clean {
		return comparator.Clean()
	}
	return nil
}
