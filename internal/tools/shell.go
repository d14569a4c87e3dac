package tools

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

var execCommandContext = exec.CommandContext

// ExecResult is the structured outcome of one shell command.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
}

// Shell runs model-requested commands in the checkout under a fixed
// wall-clock timeout. A timeout or a non-zero exit is a result, not an
// error; Run only errors when the command cannot be started at all.
type Shell struct {
	Dir     string
	Timeout time.Duration
}

// NewShell returns a Shell bound to dir with the given timeout.
func NewShell(dir string, timeout time.Duration) *Shell {
	return &Shell{Dir: dir, Timeout: timeout}
}

// Run executes command via `sh -c`.
func (s *Shell) Run(ctx context.Context, command string) (ExecResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := execCommandContext(runCtx, "sh", "-c", command)
	cmd.Dir = s.Dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		return result, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return ExecResult{}, err
	}

	return result, nil
}
