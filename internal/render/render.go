// Package render turns reports and diffs into terminal text and stable
// JSON files. It is a stateless transform layer; all logic lives in
// internal/cover.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/zjy-dev/covreport/internal/cover"
)

// defaultWidth is the function column width of the diff table.
const defaultWidth = 110

// Options controls text rendering. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// Width is the function column width in display cells.
	Width int
	// Color enables ANSI polarity styling.
	Color bool
}

// DefaultOptions returns colored output at the standard table width.
func DefaultOptions() Options {
	return Options{Width: defaultWidth, Color: true}
}

// Renderer writes the human-readable views of reports and diffs.
type Renderer struct {
	opts  Options
	green *color.Color
	red   *color.Color
}

// New creates a renderer with the given options.
func New(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	if !opts.Color {
		green.DisableColor()
		red.DisableColor()
	}
	return &Renderer{opts: opts, green: green, red: red}
}

// truncateLeft keeps the trailing cells of s behind a leading ellipsis
// when s is wider than width. The rendered width never exceeds width.
func truncateLeft(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w <= width {
		return s
	}
	return runewidth.TruncateLeft(s, w-(width-3), "...")
}

// delta formats a coverage change with polarity styling: non-negative
// deltas are positive-styled, negative ones negative-styled.
func (r *Renderer) delta(diff float64) string {
	if diff < 0 {
		return r.red.Sprintf("%.1f%%", diff)
	}
	return r.green.Sprintf("+%.1f%%", diff)
}

// FuncDiff writes the function-level diff report: the total delta line,
// then changed functions by magnitude, then new and removed functions
// by file.
func (r *Renderer) FuncDiff(w io.Writer, diff *cover.FuncDiff) {
	width := r.opts.Width

	if diff.HasTotals {
		change := diff.AfterTotal - diff.BeforeTotal
		changeStr := "no change"
		if change != 0 {
			changeStr = r.delta(change)
		}
		fmt.Fprintf(w, "Total Coverage: %.1f%% → %.1f%% (%s)\n\n",
			diff.BeforeTotal, diff.AfterTotal, changeStr)
	}

	if len(diff.Changed) > 0 {
		fmt.Fprintf(w, "FUNCTIONS WITH CHANGED COVERAGE (%d total):\n", len(diff.Changed))
		fmt.Fprintf(w, "%s | %6s | %6s | CHANGE\n", runewidth.FillRight("FUNCTION", width), "BEFORE", "AFTER")
		fmt.Fprintf(w, "%s-+-%s-+-%s-+-------\n", strings.Repeat("-", width), strings.Repeat("-", 6), strings.Repeat("-", 6))

		for _, d := range diff.Changed {
			name := truncateLeft(d.Key, width)
			fmt.Fprintf(w, "%s | %5.1f%% | %5.1f%% | %s\n",
				runewidth.FillRight(name, width),
				d.Before.Percent, d.After.Percent,
				r.delta(d.After.Percent-d.Before.Percent))
		}
	} else {
		fmt.Fprintln(w, "No functions with changed coverage")
	}

	r.entryTable(w, "NEW FUNCTIONS", diff.New)
	r.entryTable(w, "REMOVED FUNCTIONS", diff.Removed)
}

// entryTable writes the one-sided table used for new and removed
// functions. Nothing is written for an empty set.
func (r *Renderer) entryTable(w io.Writer, title string, entries []cover.Entry) {
	if len(entries) == 0 {
		return
	}
	width := r.opts.Width

	fmt.Fprintf(w, "\n%s (%d total):\n", title, len(entries))
	fmt.Fprintf(w, "%s | COVERAGE\n", runewidth.FillRight("FUNCTION", width))
	fmt.Fprintf(w, "%s-+---------\n", strings.Repeat("-", width))

	for _, e := range entries {
		name := truncateLeft(e.Key(), width)
		fmt.Fprintf(w, "%s | %7.1f%%\n", runewidth.FillRight(name, width), e.Percent)
	}
}

// SummaryLine writes the single-directory rollup line. The label
// prefixes the line when non-empty.
func (r *Renderer) SummaryLine(w io.Writer, summary cover.Summary, label string) {
	if label != "" {
		fmt.Fprintf(w, "%s ", label)
	}
	fmt.Fprintf(w, "Coverage: %.1f%% (%d files with 0%% coverage)\n",
		summary.TotalCoverage, summary.ZeroCoverageCount)
}

// ComparisonSummary writes the file-level comparison rollup.
func (r *Renderer) ComparisonSummary(w io.Writer, report *cover.ComparisonReport) {
	comp := report.Comparison

	change := "no change"
	if comp.CoverageDiff != 0 {
		change = r.delta(comp.CoverageDiff)
	}
	fmt.Fprintf(w, "Coverage Change: %.1f%% → %.1f%% (%s)\n",
		report.Dir1.TotalCoverage, report.Dir2.TotalCoverage, change)

	zeroDiff := report.Dir1.ZeroCoverageCount - report.Dir2.ZeroCoverageCount
	zeroChange := "no change"
	switch {
	case zeroDiff > 0:
		// Fewer zero-coverage files is an improvement.
		zeroChange = r.green.Sprintf("-%d", zeroDiff)
	case zeroDiff < 0:
		zeroChange = r.red.Sprintf("+%d", -zeroDiff)
	}
	fmt.Fprintf(w, "Zero Coverage Files: %d → %d (%s)\n",
		report.Dir1.ZeroCoverageCount, report.Dir2.ZeroCoverageCount, zeroChange)

	if comp.ImprovedCount > 0 {
		fmt.Fprintf(w, "Files with improved coverage: %s\n", r.green.Sprintf("%d", comp.ImprovedCount))
	}
	if comp.WorsenedCount > 0 {
		fmt.Fprintf(w, "Files with worsened coverage: %s\n", r.red.Sprintf("%d", comp.WorsenedCount))
	}
}

// WriteJSON persists any of the stable report shapes as indented JSON.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
