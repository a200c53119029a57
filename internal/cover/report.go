package cover

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
)

// FileCoverage aggregates the coverage entries of a single source file.
// Functions keeps report encounter order.
type FileCoverage struct {
	Path      string
	Functions []Entry
}

// Add appends a function's coverage record to this file.
func (f *FileCoverage) Add(e Entry) {
	f.Functions = append(f.Functions, e)
}

// Percent returns the arithmetic mean coverage over this file's
// functions, or 0.0 when the file has none.
func (f *FileCoverage) Percent() float64 {
	if len(f.Functions) == 0 {
		return 0.0
	}
	var total float64
	for _, fn := range f.Functions {
		total += fn.Percent
	}
	return total / float64(len(f.Functions))
}

// IsZeroCoverage reports whether every function in this file has
// exactly 0% coverage. An empty file is vacuously zero-coverage; the
// quirk is kept to match the established report semantics.
func (f *FileCoverage) IsZeroCoverage() bool {
	for _, fn := range f.Functions {
		if fn.Percent != 0.0 {
			return false
		}
	}
	return true
}

// Report is the full parse result of one textual coverage report.
// The zero value is ready to use via Ingest.
type Report struct {
	// Entries holds all parsed records in encounter order, across files.
	Entries []Entry
	// Files maps file path to that file's aggregate.
	Files map[string]*FileCoverage
	// TotalCoverage is the report's own declared aggregate, taken
	// verbatim from its trailing total line. HasTotal distinguishes an
	// absent total from a genuine 0%.
	TotalCoverage float64
	HasTotal      bool
}

// NewReport returns an empty report ready for ingestion.
func NewReport() *Report {
	return &Report{Files: make(map[string]*FileCoverage)}
}

// Parse reads a textual coverage report line by line. Lines that match
// neither the function-coverage shape nor the total line are silently
// skipped; parsing itself only fails on reader errors.
func Parse(r io.Reader) (*Report, error) {
	rep := NewReport()
	if err := rep.Ingest(r); err != nil {
		return nil, err
	}
	return rep, nil
}

// ParseFile parses the coverage report at the given path. A missing
// file surfaces as the underlying os error.
func ParseFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open coverage report: %w", err)
	}
	defer f.Close()

	rep, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read coverage report %s: %w", path, err)
	}
	return rep, nil
}

// Ingest accumulates the lines of r into the report, preserving
// encounter order and creating file aggregates on first sight.
func (r *Report) Ingest(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text()

		if IsTotalLine(line) {
			if total, ok := ParseTotalLine(line); ok {
				r.TotalCoverage = total
				r.HasTotal = true
			}
			continue
		}

		entry, ok := ParseLine(line)
		if !ok {
			continue
		}

		r.Entries = append(r.Entries, entry)
		file, exists := r.Files[entry.FilePath]
		if !exists {
			file = &FileCoverage{Path: entry.FilePath}
			r.Files[entry.FilePath] = file
		}
		file.Add(entry)
	}
	return scanner.Err()
}

// ZeroCoverageFiles returns the paths of all files whose every function
// has 0% coverage. Order is unspecified; callers sort for display.
func (r *Report) ZeroCoverageFiles() []string {
	var paths []string
	for path, file := range r.Files {
		if file.IsZeroCoverage() {
			paths = append(paths, path)
		}
	}
	return paths
}

// Keyed returns the report's entries keyed by file path and function
// name. A duplicate key keeps the last entry seen.
func (r *Report) Keyed() map[string]Entry {
	keyed := make(map[string]Entry, len(r.Entries))
	for _, e := range r.Entries {
		keyed[e.Key()] = e
	}
	return keyed
}

// Summary is the stable machine-readable rollup of a single report.
type Summary struct {
	TotalCoverage     float64  `json:"total_coverage"`
	ZeroCoverageFiles []string `json:"zero_coverage_files"`
	ZeroCoverageCount int      `json:"zero_coverage_count"`
	TotalFiles        int      `json:"total_files"`
	TotalFunctions    int      `json:"total_functions"`
}

// Summarize produces the report's summary with the total rounded to one
// decimal and zero-coverage files sorted for determinism.
func (r *Report) Summarize() Summary {
	zero := r.ZeroCoverageFiles()
	sort.Strings(zero)
	if zero == nil {
		zero = []string{}
	}
	return Summary{
		TotalCoverage:     Round1(r.TotalCoverage),
		ZeroCoverageFiles: zero,
		ZeroCoverageCount: len(zero),
		TotalFiles:        len(r.Files),
		TotalFunctions:    len(r.Entries),
	}
}

// Round1 rounds to one decimal place, the precision used by all
// reported percentages.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
