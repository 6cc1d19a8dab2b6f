// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// CommandResult represents the result of executing an external command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner executes external commands.
//
// Installers, package managers and device tooling are all driven through
// this single seam so they can be faked in tests.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}

// CommandLocator resolves an executable on the search path.
// Probes combine it with well-known install locations, because a prior
// interrupted run may leave a binary outside PATH.
type CommandLocator interface {
	LookPath(name string) (string, error)
}
