// Package analyze orchestrates the external coverage toolchain over a
// coverage directory: merging runtime data and profiles, generating
// text and HTML reports, and parsing the combined report.
package analyze

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/zjy-dev/covreport/internal/config"
	"github.com/zjy-dev/covreport/internal/cover"
	"github.com/zjy-dev/covreport/internal/covtool"
	"github.com/zjy-dev/covreport/internal/logger"
)

// Analyzer processes the coverage artifacts of one directory. It keeps
// an explicit record of every file it generates so cleanup is a
// deliberate, reviewable step instead of a shared mutable list.
type Analyzer struct {
	dir     string
	runner  covtool.Runner
	log     *logger.Logger
	exclude *regexp.Regexp

	generated []string
	report    *cover.Report
}

// New creates an analyzer for the given coverage directory. The
// config's exclude patterns are compiled into the profile filter.
func New(dir string, runner covtool.Runner, cfg *config.Config, log *logger.Logger) (*Analyzer, error) {
	var exclude *regexp.Regexp
	if len(cfg.ExcludePatterns) > 0 {
		re, err := regexp.Compile(strings.Join(cfg.ExcludePatterns, "|"))
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern: %w", err)
		}
		exclude = re
	}

	return &Analyzer{
		dir:     dir,
		runner:  runner,
		log:     log,
		exclude: exclude,
		report:  cover.NewReport(),
	}, nil
}

// Report returns the parsed combined report. Empty until Process has
// run.
func (a *Analyzer) Report() *cover.Report {
	return a.report
}

// GeneratedFiles returns the paths this analyzer created, in creation
// order.
func (a *Analyzer) GeneratedFiles() []string {
	return a.generated
}

// Process runs the full pipeline: merge runtime coverage, merge
// coverprofiles, generate text and HTML reports, and parse the
// combined text report. Stages without input are skipped; a missing
// gocovmerge is the only fatal tool condition.
func (a *Analyzer) Process() error {
	a.log.Debug("processing coverage data in %s", a.dir)

	if err := a.mergeRuntimeCoverage(); err != nil {
		a.log.Error("failed to merge runtime coverage: %v", err)
	}

	if err := a.mergeProfiles(); err != nil {
		return err
	}

	a.generateTextReports()
	a.generateHTMLReport()

	combined := filepath.Join(a.dir, "combined.coverprofile.txt")
	if _, err := os.Stat(combined); err == nil {
		report, err := cover.ParseFile(combined)
		if err != nil {
			return err
		}
		a.report = report
	}

	return nil
}

// mergeRuntimeCoverage merges binary runtime coverage files (covmeta.*)
// into a text coverprofile. No runtime files means nothing to do.
func (a *Analyzer) mergeRuntimeCoverage() error {
	covmeta, err := filepath.Glob(filepath.Join(a.dir, "covmeta.*"))
	if err != nil {
		return err
	}
	if len(covmeta) == 0 {
		a.log.Debug("no runtime coverage files found")
		return nil
	}

	a.log.Debug("found runtime coverage files, merging")
	mergedDir := filepath.Join(a.dir, "merged")
	if err := os.MkdirAll(mergedDir, 0755); err != nil {
		return fmt.Errorf("failed to create merge directory: %w", err)
	}
	a.generated = append(a.generated, mergedDir)

	if err := a.runner.MergeCovData(a.dir, mergedDir); err != nil {
		return err
	}

	runtimeProfile := filepath.Join(a.dir, "runtime.coverprofile")
	if err := a.runner.TextFormat(mergedDir, runtimeProfile); err != nil {
		return err
	}
	a.generated = append(a.generated, runtimeProfile)
	a.log.Debug("converted runtime coverage to %s", runtimeProfile)

	return nil
}

// mergeProfiles combines all coverprofile files into
// combined.coverprofile and writes the filtered variant.
func (a *Analyzer) mergeProfiles() error {
	profiles, err := a.inputProfiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		a.log.Debug("no coverprofile files found")
		return nil
	}

	a.log.Debug("found %d coverprofile files, merging", len(profiles))
	combined := filepath.Join(a.dir, "combined.coverprofile")
	if err := a.runner.MergeProfiles(profiles, combined); err != nil {
		return err
	}
	a.generated = append(a.generated, combined)

	filtered := filepath.Join(a.dir, "filtered.combined.coverprofile")
	if err := a.filterProfile(combined, filtered); err != nil {
		return fmt.Errorf("failed to filter profile: %w", err)
	}
	a.generated = append(a.generated, filtered)
	a.log.Debug("filtered coverprofile created at %s", filtered)

	return nil
}

// inputProfiles lists the coverprofile files to merge, excluding the
// analyzer's own outputs from earlier runs.
func (a *Analyzer) inputProfiles() ([]string, error) {
	all, err := filepath.Glob(filepath.Join(a.dir, "*.coverprofile"))
	if err != nil {
		return nil, err
	}

	var profiles []string
	for _, p := range all {
		name := filepath.Base(p)
		if strings.Contains(name, "combined") || strings.Contains(name, "filtered") {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// filterProfile copies a profile, dropping lines matching the exclude
// patterns.
func (a *Analyzer) filterProfile(inFile, outFile string) error {
	data, err := os.ReadFile(inFile)
	if err != nil {
		return err
	}

	var out strings.Builder
	for _, line := range strings.SplitAfter(string(data), "\n") {
		if line == "" {
			continue
		}
		if a.exclude != nil && a.exclude.MatchString(line) {
			continue
		}
		out.WriteString(line)
	}

	return os.WriteFile(outFile, []byte(out.String()), 0644)
}

// generateTextReports writes a per-function text report next to every
// coverprofile. Failures on individual profiles are logged and skipped.
func (a *Analyzer) generateTextReports() {
	profiles, err := filepath.Glob(filepath.Join(a.dir, "*.coverprofile"))
	if err != nil || len(profiles) == 0 {
		return
	}

	a.log.Debug("generating readable coverage reports")
	for _, profile := range profiles {
		outFile := profile + ".txt"
		if err := a.runner.FuncReport(profile, outFile); err != nil {
			a.log.Error("failed to generate text report for %s: %v", profile, err)
			continue
		}
		a.generated = append(a.generated, outFile)
		a.log.Debug("generated text report for %s", filepath.Base(profile))
	}
}

// generateHTMLReport renders the combined profile as HTML when one
// exists.
func (a *Analyzer) generateHTMLReport() {
	combined := filepath.Join(a.dir, "combined.coverprofile")
	if _, err := os.Stat(combined); err != nil {
		return
	}

	htmlOut := filepath.Join(a.dir, "coverage.html")
	if err := a.runner.HTMLReport(combined, htmlOut); err != nil {
		a.log.Error("failed to generate HTML report: %v", err)
		return
	}
	a.generated = append(a.generated, htmlOut)
	a.log.Debug("HTML coverage report generated at %s", htmlOut)
}

// Clean removes every file and directory this analyzer generated.
func (a *Analyzer) Clean() error {
	a.log.Debug("cleaning up generated files")
	for _, path := range a.generated {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		a.log.Debug("removed %s", path)
	}
	a.generated = nil
	return nil
}

// Comparator processes two coverage directories and compares their
// reports.
type Comparator struct {
	Before *Analyzer
	After  *Analyzer
}

// NewComparator builds analyzers for the two directories over a shared
// runner and config.
func NewComparator(dir1, dir2 string, runner covtool.Runner, cfg *config.Config, log *logger.Logger) (*Comparator, error) {
	before, err := New(dir1, runner, cfg, log)
	if err != nil {
		return nil, err
	}
	after, err := New(dir2, runner, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Comparator{Before: before, After: after}, nil
}

// Compare processes both directories and returns the file-level
// comparison. The two reports are built independently; neither is
// mutated afterwards.
func (c *Comparator) Compare() (*cover.ComparisonReport, error) {
	if err := c.Before.Process(); err != nil {
		return nil, err
	}
	if err := c.After.Process(); err != nil {
		return nil, err
	}
	return cover.Compare(c.Before.Report(), c.After.Report()), nil
}

// Clean removes generated files in both directories.
func (c *Comparator) Clean() error {
	if err := c.Before.Clean(); err != nil {
		return err
	}
	return c.After.Clean()
}
