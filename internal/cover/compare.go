package cover

import (
	"math"
	"sort"
)

// DirSummary is the per-snapshot half of a file-level comparison.
type DirSummary struct {
	TotalCoverage     float64 `json:"total_coverage"`
	ZeroCoverageCount int     `json:"zero_coverage_count"`
	TotalFiles        int     `json:"total_files"`
	TotalFunctions    int     `json:"total_functions"`
}

// FileComparison classifies zero-coverage movement between two
// snapshots. All slices are sorted lexicographically.
type FileComparison struct {
	CoverageDiff float64 `json:"coverage_diff"`
	// Improved lists files that were all-zero before and are not after.
	Improved []string `json:"improved"`
	// Worsened lists files that became all-zero.
	Worsened []string `json:"worsened"`
	// UnchangedZero lists files all-zero in both snapshots.
	UnchangedZero      []string `json:"unchanged_zero"`
	ImprovedCount      int      `json:"improved_count"`
	WorsenedCount      int      `json:"worsened_count"`
	UnchangedZeroCount int      `json:"unchanged_zero_count"`
}

// ComparisonReport is the stable file-level comparison of two reports.
type ComparisonReport struct {
	Dir1       DirSummary     `json:"dir1"`
	Dir2       DirSummary     `json:"dir2"`
	Comparison FileComparison `json:"comparison"`
}

// Compare produces the file-level comparison of two fully built
// reports. Neither report is mutated.
func Compare(before, after *Report) *ComparisonReport {
	zeroBefore := stringSet(before.ZeroCoverageFiles())
	zeroAfter := stringSet(after.ZeroCoverageFiles())

	var improved, worsened, unchanged []string
	for path := range zeroBefore {
		if _, ok := zeroAfter[path]; ok {
			unchanged = append(unchanged, path)
		} else {
			improved = append(improved, path)
		}
	}
	for path := range zeroAfter {
		if _, ok := zeroBefore[path]; !ok {
			worsened = append(worsened, path)
		}
	}
	sort.Strings(improved)
	sort.Strings(worsened)
	sort.Strings(unchanged)

	return &ComparisonReport{
		Dir1: DirSummary{
			TotalCoverage:     Round1(before.TotalCoverage),
			ZeroCoverageCount: len(zeroBefore),
			TotalFiles:        len(before.Files),
			TotalFunctions:    len(before.Entries),
		},
		Dir2: DirSummary{
			TotalCoverage:     Round1(after.TotalCoverage),
			ZeroCoverageCount: len(zeroAfter),
			TotalFiles:        len(after.Files),
			TotalFunctions:    len(after.Entries),
		},
		Comparison: FileComparison{
			CoverageDiff:       Round1(after.TotalCoverage - before.TotalCoverage),
			Improved:           emptyIfNil(improved),
			Worsened:           emptyIfNil(worsened),
			UnchangedZero:      emptyIfNil(unchanged),
			ImprovedCount:      len(improved),
			WorsenedCount:      len(worsened),
			UnchangedZeroCount: len(unchanged),
		},
	}
}

// FuncDelta is one function present in both snapshots whose coverage
// changed.
type FuncDelta struct {
	Key    string
	Before Entry
	After  Entry
}

// Magnitude returns the absolute size of the coverage change.
func (d FuncDelta) Magnitude() float64 {
	return math.Abs(d.After.Percent - d.Before.Percent)
}

// FuncDiff is the function-level diff of two snapshots.
type FuncDiff struct {
	BeforeTotal float64
	AfterTotal  float64
	// HasTotals is set when both snapshots declared an aggregate line.
	HasTotals bool

	// Changed is sorted by descending magnitude, ties alphabetically by
	// key so output is stable across runs.
	Changed []FuncDelta
	// New and Removed are sorted by file path, ties by key.
	New     []Entry
	Removed []Entry
}

// DiffEntries classifies the functions of two pre-keyed snapshots into
// changed, new, and removed. Equality is exact float comparison; no
// epsilon is applied.
func DiffEntries(before, after map[string]Entry) *FuncDiff {
	diff := &FuncDiff{}

	for key, b := range before {
		a, ok := after[key]
		if !ok {
			diff.Removed = append(diff.Removed, b)
			continue
		}
		if a.Percent != b.Percent {
			diff.Changed = append(diff.Changed, FuncDelta{Key: key, Before: b, After: a})
		}
	}
	for key, a := range after {
		if _, ok := before[key]; !ok {
			diff.New = append(diff.New, a)
		}
	}

	sort.Slice(diff.Changed, func(i, j int) bool {
		mi, mj := diff.Changed[i].Magnitude(), diff.Changed[j].Magnitude()
		if mi != mj {
			return mi > mj
		}
		return diff.Changed[i].Key < diff.Changed[j].Key
	})
	sortByFile(diff.New)
	sortByFile(diff.Removed)

	return diff
}

// Diff is the report-level convenience around DiffEntries, carrying the
// two declared totals when both reports have one.
func Diff(before, after *Report) *FuncDiff {
	diff := DiffEntries(before.Keyed(), after.Keyed())
	diff.BeforeTotal = before.TotalCoverage
	diff.AfterTotal = after.TotalCoverage
	diff.HasTotals = before.HasTotal && after.HasTotal
	return diff
}

func sortByFile(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].FilePath != entries[j].FilePath {
			return entries[i].FilePath < entries[j].FilePath
		}
		return entries[i].Key() < entries[j].Key()
	})
}

func stringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
