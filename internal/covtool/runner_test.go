package covtool

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/covreport/internal/exec"
)

// recordingExecutor captures every invocation and plays back canned
// results.
type recordingExecutor struct {
	calls   [][]string
	result  *exec.Result
	runErr  error
	pathErr error
}

func (r *recordingExecutor) Run(command string, args ...string) (*exec.Result, error) {
	r.calls = append(r.calls, append([]string{command}, args...))
	if r.runErr != nil {
		return nil, r.runErr
	}
	if r.result != nil {
		return r.result, nil
	}
	return &exec.Result{ExitCode: 0}, nil
}

func (r *recordingExecutor) LookPath(tool string) (string, error) {
	if r.pathErr != nil {
		return "", r.pathErr
	}
	return "/usr/bin/" + tool, nil
}

func TestGoToolRunner_MergeCovData(t *testing.T) {
	t.Run("should invoke covdata merge", func(t *testing.T) {
		rec := &recordingExecutor{}
		runner := NewGoToolRunner(rec, "")

		require.NoError(t, runner.MergeCovData("covdir", "covdir/merged"))
		require.Len(t, rec.calls, 1)
		assert.Equal(t, []string{"go", "tool", "covdata", "merge", "-i", "covdir", "-o", "covdir/merged"}, rec.calls[0])
	})

	t.Run("should surface stderr on failure", func(t *testing.T) {
		rec := &recordingExecutor{result: &exec.Result{ExitCode: 1, Stderr: "no meta files"}}
		runner := NewGoToolRunner(rec, "")

		err := runner.MergeCovData("covdir", "out")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no meta files")
	})
}

func TestGoToolRunner_TextFormat(t *testing.T) {
	rec := &recordingExecutor{}
	runner := NewGoToolRunner(rec, "")

	require.NoError(t, runner.TextFormat("merged", "runtime.coverprofile"))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"go", "tool", "covdata", "textfmt", "-i", "merged", "-o", "runtime.coverprofile"}, rec.calls[0])
}

func TestGoToolRunner_MergeProfiles(t *testing.T) {
	t.Run("should write gocovmerge stdout to the output file", func(t *testing.T) {
		merged := "mode: set\nfile.go:1.1,2.2 1 1\n"
		rec := &recordingExecutor{result: &exec.Result{ExitCode: 0, Stdout: merged}}
		runner := NewGoToolRunner(rec, "")

		outFile := filepath.Join(t.TempDir(), "combined.coverprofile")
		require.NoError(t, runner.MergeProfiles([]string{"a.coverprofile", "b.coverprofile"}, outFile))

		require.Len(t, rec.calls, 1)
		assert.Equal(t, []string{"gocovmerge", "a.coverprofile", "b.coverprofile"}, rec.calls[0])

		content, err := os.ReadFile(outFile)
		require.NoError(t, err)
		assert.Equal(t, merged, string(content))
	})

	t.Run("should hint the install command when gocovmerge is missing", func(t *testing.T) {
		rec := &recordingExecutor{pathErr: errors.New("not found")}
		runner := NewGoToolRunner(rec, "")

		err := runner.MergeProfiles([]string{"a.coverprofile"}, "out")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "go install github.com/wadey/gocovmerge@latest")
		assert.Empty(t, rec.calls)
	})

	t.Run("should use the configured binary name", func(t *testing.T) {
		rec := &recordingExecutor{}
		runner := NewGoToolRunner(rec, "/opt/tools/gocovmerge")

		outFile := filepath.Join(t.TempDir(), "combined.coverprofile")
		require.NoError(t, runner.MergeProfiles([]string{"a.coverprofile"}, outFile))
		require.Len(t, rec.calls, 1)
		assert.Equal(t, "/opt/tools/gocovmerge", rec.calls[0][0])
	})
}

func TestGoToolRunner_FuncReport(t *testing.T) {
	report := "a.go:10:\tFoo\t75.0%\ntotal:\t(statements)\t75.0%\n"
	rec := &recordingExecutor{result: &exec.Result{ExitCode: 0, Stdout: report}}
	runner := NewGoToolRunner(rec, "")

	outFile := filepath.Join(t.TempDir(), "combined.coverprofile.txt")
	require.NoError(t, runner.FuncReport("combined.coverprofile", outFile))

	content, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "a.go:10:"))
}

func TestGoToolRunner_HTMLReport(t *testing.T) {
	rec := &recordingExecutor{}
	runner := NewGoToolRunner(rec, "")

	require.NoError(t, runner.HTMLReport("combined.coverprofile", "coverage.html"))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"go", "tool", "cover", "-html", "combined.coverprofile", "-o", "coverage.html"}, rec.calls[0])
}
