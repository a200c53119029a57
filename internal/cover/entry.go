package cover

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry represents one function's coverage record parsed from a textual
// coverage report line (the `go tool cover -func` format).
type Entry struct {
	FilePath string
	Position string // line or line:column block info, kept opaque
	FuncName string
	Percent  float64
}

// Key returns the identity key used for function-level comparison.
// Position is excluded: a function that moves lines but keeps its name
// and file is the same function.
func (e Entry) Key() string {
	return e.FilePath + ":" + e.FuncName
}

// fieldSep matches runs of two-or-more spaces or tab runs, the column
// separators emitted by `go tool cover -func`.
var fieldSep = regexp.MustCompile(`\s{2,}|\t+`)

// ParseLine parses a single function-coverage line of the form
//
//	path/file.go:42:  FuncName  87.5%
//
// The last field must end in '%', the second-to-last field is the
// function name, and the first field is split on its last colon into
// file path and position. Malformed lines report ok=false and are
// expected to be skipped by the caller.
func ParseLine(line string) (Entry, bool) {
	fields := fieldSep.Split(strings.TrimSpace(line), -1)
	if len(fields) < 2 {
		return Entry{}, false
	}

	last := strings.TrimSpace(fields[len(fields)-1])
	if !strings.HasSuffix(last, "%") {
		return Entry{}, false
	}
	percent, err := strconv.ParseFloat(strings.TrimSuffix(last, "%"), 64)
	if err != nil {
		return Entry{}, false
	}

	funcName := strings.TrimSpace(fields[len(fields)-2])
	if funcName == "" {
		return Entry{}, false
	}

	// The location field carries a trailing colon in `go tool cover
	// -func` output (file.go:18:). Drop it before splitting so the
	// position is the segment after the last remaining colon.
	loc := strings.TrimSuffix(strings.TrimSpace(fields[0]), ":")
	idx := strings.LastIndex(loc, ":")
	if idx <= 0 {
		return Entry{}, false
	}

	return Entry{
		FilePath: loc[:idx],
		Position: loc[idx+1:],
		FuncName: funcName,
		Percent:  percent,
	}, true
}

// totalPrefix marks the report's own aggregate line.
const totalPrefix = "total:"

// IsTotalLine reports whether the line is the report's trailing
// aggregate-coverage line.
func IsTotalLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), totalPrefix)
}

// ParseTotalLine extracts the aggregate percentage from a total line.
// Unlike function lines, total lines split on any whitespace run: the
// marker and the percentage may be separated by a single space. A total
// line whose last field does not end in '%' reports ok=false; the
// caller leaves the report total unset.
func ParseTotalLine(line string) (float64, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, false
	}
	last := fields[len(fields)-1]
	if !strings.HasSuffix(last, "%") {
		return 0, false
	}
	percent, err := strconv.ParseFloat(strings.TrimSuffix(last, "%"), 64)
	if err != nil {
		return 0, false
	}
	return percent, true
}
