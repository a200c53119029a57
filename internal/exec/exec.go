package exec

import (
	"bytes"
	"os/exec"
)

// Result holds the outcome of an external tool invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs external commands. Coverage tooling is only ever
// reached through this interface so tests can substitute a recorder.
type Executor interface {
	Run(command string, args ...string) (*Result, error)
	// LookPath reports the resolved path of a tool, or an error when it
	// is not installed.
	LookPath(tool string) (string, error)
}

// CommandExecutor runs commands on the host system.
type CommandExecutor struct{}

// NewCommandExecutor creates a new CommandExecutor.
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

// Run executes the given command and captures its output. A non-zero
// exit code is not an error here; callers inspect ExitCode. Only
// failures to start the command at all (e.g. not found) return an
// error.
func (e *CommandExecutor) Run(command string, args ...string) (*Result, error) {
	cmd := exec.Command(command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return nil, err
		}
	}

	return result, nil
}

// LookPath resolves a tool name against PATH.
func (e *CommandExecutor) LookPath(tool string) (string, error) {
	return exec.LookPath(tool)
}
