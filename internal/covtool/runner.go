package covtool

import (
	"fmt"
	"os"

	"github.com/zjy-dev/covreport/internal/exec"
)

// Runner abstracts the external Go coverage toolchain. The analyzer
// only talks to this interface; tests substitute a recorder.
type Runner interface {
	// MergeCovData merges binary runtime coverage data (covmeta.* /
	// covcounters.*) from inputDir into outputDir.
	MergeCovData(inputDir, outputDir string) error

	// TextFormat converts merged runtime coverage data into the textual
	// coverprofile format.
	TextFormat(inputDir, outFile string) error

	// MergeProfiles combines several coverprofile files into one.
	MergeProfiles(profiles []string, outFile string) error

	// FuncReport writes the per-function text report for a profile.
	FuncReport(profile, outFile string) error

	// HTMLReport writes the HTML report for a profile.
	HTMLReport(profile, outFile string) error
}

// GoToolRunner drives `go tool covdata`, `go tool cover`, and
// gocovmerge through an Executor.
type GoToolRunner struct {
	executor exec.Executor
	// gocovmerge binary name, configurable so a pinned install can be
	// pointed at directly.
	gocovmerge string
}

// NewGoToolRunner creates a runner using the given executor. An empty
// gocovmerge falls back to the plain binary name.
func NewGoToolRunner(executor exec.Executor, gocovmerge string) *GoToolRunner {
	if gocovmerge == "" {
		gocovmerge = "gocovmerge"
	}
	return &GoToolRunner{executor: executor, gocovmerge: gocovmerge}
}

// MergeCovData runs `go tool covdata merge`.
func (r *GoToolRunner) MergeCovData(inputDir, outputDir string) error {
	result, err := r.executor.Run("go", "tool", "covdata", "merge", "-i", inputDir, "-o", outputDir)
	if err != nil {
		return fmt.Errorf("failed to run covdata merge: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("covdata merge failed, exit code %d: %s", result.ExitCode, result.Stderr)
	}
	return nil
}

// TextFormat runs `go tool covdata textfmt`.
func (r *GoToolRunner) TextFormat(inputDir, outFile string) error {
	result, err := r.executor.Run("go", "tool", "covdata", "textfmt", "-i", inputDir, "-o", outFile)
	if err != nil {
		return fmt.Errorf("failed to run covdata textfmt: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("covdata textfmt failed, exit code %d: %s", result.ExitCode, result.Stderr)
	}
	return nil
}

// MergeProfiles runs gocovmerge over the given profiles and writes its
// stdout to outFile. Returns an install hint when the tool is missing.
func (r *GoToolRunner) MergeProfiles(profiles []string, outFile string) error {
	if _, err := r.executor.LookPath(r.gocovmerge); err != nil {
		return fmt.Errorf("%s not found, install it with: go install github.com/wadey/gocovmerge@latest", r.gocovmerge)
	}

	result, err := r.executor.Run(r.gocovmerge, profiles...)
	if err != nil {
		return fmt.Errorf("failed to run %s: %w", r.gocovmerge, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%s failed, exit code %d: %s", r.gocovmerge, result.ExitCode, result.Stderr)
	}

	if err := os.WriteFile(outFile, []byte(result.Stdout), 0644); err != nil {
		return fmt.Errorf("failed to write merged profile: %w", err)
	}
	return nil
}

// FuncReport runs `go tool cover -func` and writes its stdout to
// outFile.
func (r *GoToolRunner) FuncReport(profile, outFile string) error {
	result, err := r.executor.Run("go", "tool", "cover", "-func", profile)
	if err != nil {
		return fmt.Errorf("failed to run cover -func: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("cover -func failed for %s, exit code %d: %s", profile, result.ExitCode, result.Stderr)
	}

	if err := os.WriteFile(outFile, []byte(result.Stdout), 0644); err != nil {
		return fmt.Errorf("failed to write text report: %w", err)
	}
	return nil
}

// HTMLReport runs `go tool cover -html`.
func (r *GoToolRunner) HTMLReport(profile, outFile string) error {
	result, err := r.executor.Run("go", "tool", "cover", "-html", profile, "-o", outFile)
	if err != nil {
		return fmt.Errorf("failed to run cover -html: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("cover -html failed for %s, exit code %d: %s", profile, result.ExitCode, result.Stderr)
	}
	return nil
}
