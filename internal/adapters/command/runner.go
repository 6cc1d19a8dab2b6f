// Package command provides command execution adapters.
package command

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// RealRunner executes actual external commands.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes a command and returns the result. A non-zero exit is not
// an error here; classification by exit status is the caller's job.
func (r *RealRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

// RealLocator resolves executables via the process search path.
type RealLocator struct{}

// NewRealLocator creates a new RealLocator.
func NewRealLocator() *RealLocator {
	return &RealLocator{}
}

// LookPath resolves name on PATH.
func (l *RealLocator) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Ensure the adapters implement their ports.
var (
	_ ports.CommandRunner  = (*RealRunner)(nil)
	_ ports.CommandLocator = (*RealLocator)(nil)
)
