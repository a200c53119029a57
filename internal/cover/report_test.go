package cover

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("should aggregate entries per file and capture the total", func(t *testing.T) {
		report, err := Parse(strings.NewReader(
			"b.go:5\tBar\t100.0%\n" +
				"b.go:8\tBaz\t0.0%\n" +
				"total: 50.0%\n"))
		require.NoError(t, err)

		require.Len(t, report.Entries, 2)
		require.Contains(t, report.Files, "b.go")
		assert.Equal(t, 50.0, report.Files["b.go"].Percent())
		assert.False(t, report.Files["b.go"].IsZeroCoverage())
		assert.True(t, report.HasTotal)
		assert.Equal(t, 50.0, report.TotalCoverage)
	})

	t.Run("should skip unparseable lines without failing", func(t *testing.T) {
		report, err := Parse(strings.NewReader(
			"garbage header\n" +
				"\n" +
				"a.go:10\tFoo\t75.0%\n" +
				"not  a  percent  line\n"))
		require.NoError(t, err)
		require.Len(t, report.Entries, 1)
		assert.Equal(t, "Foo", report.Entries[0].FuncName)
	})

	t.Run("should leave the total unset for a malformed total line", func(t *testing.T) {
		report, err := Parse(strings.NewReader("total: broken\n"))
		require.NoError(t, err)
		assert.False(t, report.HasTotal)
		assert.Equal(t, 0.0, report.TotalCoverage)
	})

	t.Run("should preserve encounter order within a file", func(t *testing.T) {
		report, err := Parse(strings.NewReader(
			"a.go:30\tThird\t10.0%\n" +
				"a.go:10\tFirst\t20.0%\n" +
				"a.go:20\tSecond\t30.0%\n"))
		require.NoError(t, err)
		fns := report.Files["a.go"].Functions
		require.Len(t, fns, 3)
		assert.Equal(t, "Third", fns[0].FuncName)
		assert.Equal(t, "First", fns[1].FuncName)
		assert.Equal(t, "Second", fns[2].FuncName)
	})

	t.Run("average should be independent of line order", func(t *testing.T) {
		forward, err := Parse(strings.NewReader("a.go:1\tA\t40.0%\na.go:2\tB\t60.0%\n"))
		require.NoError(t, err)
		backward, err := Parse(strings.NewReader("a.go:2\tB\t60.0%\na.go:1\tA\t40.0%\n"))
		require.NoError(t, err)
		assert.Equal(t, forward.Files["a.go"].Percent(), backward.Files["a.go"].Percent())
	})
}

func TestParseFile(t *testing.T) {
	t.Run("should parse a report from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "combined.coverprofile.txt")
		content := "a.go:10:\tFoo\t75.0%\ntotal:\t(statements)\t75.0%\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		report, err := ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, 75.0, report.TotalCoverage)
		assert.Len(t, report.Entries, 1)
	})

	t.Run("should return an error for a missing file", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})
}

func TestFileCoverage_IsZeroCoverage(t *testing.T) {
	t.Run("empty aggregate is vacuously zero", func(t *testing.T) {
		f := &FileCoverage{Path: "a.go"}
		assert.True(t, f.IsZeroCoverage())
		assert.Equal(t, 0.0, f.Percent())
	})

	t.Run("all-zero functions", func(t *testing.T) {
		f := &FileCoverage{Path: "a.go"}
		f.Add(Entry{FilePath: "a.go", FuncName: "Foo", Percent: 0.0})
		f.Add(Entry{FilePath: "a.go", FuncName: "Bar", Percent: 0.0})
		assert.True(t, f.IsZeroCoverage())
	})

	t.Run("one nonzero function clears the flag", func(t *testing.T) {
		f := &FileCoverage{Path: "a.go"}
		f.Add(Entry{FilePath: "a.go", FuncName: "Foo", Percent: 0.0})
		f.Add(Entry{FilePath: "a.go", FuncName: "Bar", Percent: 0.1})
		assert.False(t, f.IsZeroCoverage())
	})
}

func TestReport_ZeroCoverageFiles(t *testing.T) {
	report, err := Parse(strings.NewReader(
		"zero.go:1\tA\t0.0%\n" +
			"zero.go:2\tB\t0.0%\n" +
			"mixed.go:1\tC\t0.0%\n" +
			"mixed.go:2\tD\t50.0%\n" +
			"full.go:1\tE\t100.0%\n"))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"zero.go"}, report.ZeroCoverageFiles())
}

func TestReport_Summarize(t *testing.T) {
	report, err := Parse(strings.NewReader(
		"b.go:1\tA\t0.0%\n" +
			"a.go:1\tB\t0.0%\n" +
			"c.go:1\tC\t90.0%\n" +
			"total:\t(statements)\t33.333%\n"))
	require.NoError(t, err)

	summary := report.Summarize()
	assert.Equal(t, 33.3, summary.TotalCoverage)
	assert.Equal(t, []string{"a.go", "b.go"}, summary.ZeroCoverageFiles)
	assert.Equal(t, 2, summary.ZeroCoverageCount)
	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 3, summary.TotalFunctions)
}

func TestReport_Keyed(t *testing.T) {
	report, err := Parse(strings.NewReader(
		"a.go:10\tFoo\t10.0%\n" +
			"a.go:99\tFoo\t90.0%\n"))
	require.NoError(t, err)

	keyed := report.Keyed()
	require.Len(t, keyed, 1)
	// Last one wins for a duplicate identity.
	assert.Equal(t, 90.0, keyed["a.go:Foo"].Percent)
}
