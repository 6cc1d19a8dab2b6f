// Package wsl enables the Windows Subsystem for Linux feature. The step
// is only added to a plan when the run explicitly opts in; enabling an
// OS feature is never an implicit side effect of an install.
package wsl

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// Step enables the WSL optional feature via dism.
type Step struct {
	runner ports.CommandRunner
}

// NewStep creates the WSL enable step.
func NewStep(runner ports.CommandRunner) *Step {
	return &Step{runner: runner}
}

// ID returns the step identifier.
func (s *Step) ID() install.StepID {
	return install.MustNewStepID("wsl:enable")
}

// Description returns the step label.
func (s *Step) Description() string {
	return "enable Windows Subsystem for Linux"
}

// Policy returns PolicyWarn; WSL is an optional acceleration path.
func (s *Step) Policy() install.FailurePolicy {
	return install.PolicyWarn
}

// AppliesTo runs on Windows only.
func (s *Step) AppliesTo(p *platform.Platform) bool {
	return p.IsWindows()
}

// Check asks wsl.exe for its status. A zero exit means the feature is
// installed and has a default distribution.
func (s *Step) Check(rc *install.RunContext) (install.Status, string, error) {
	result, err := s.runner.Run(rc.Context(), "wsl", "--status")
	if err != nil {
		// wsl.exe missing means the feature is off. Absence is a normal
		// probe result.
		return install.StatusNeedsApply, "wsl not available", nil
	}
	if result.Success() {
		return install.StatusSatisfied, strings.TrimSpace(result.Stdout), nil
	}
	return install.StatusNeedsApply, "wsl feature disabled", nil
}

// Apply enables the feature without forcing a reboot.
func (s *Step) Apply(rc *install.RunContext) error {
	result, err := s.runner.Run(rc.Context(), "dism.exe",
		"/online", "/enable-feature",
		"/featurename:Microsoft-Windows-Subsystem-Linux",
		"/all", "/norestart")
	if err != nil {
		return fmt.Errorf("enabling wsl feature: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("wsl enable failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure Step implements install.Step.
var _ install.Step = (*Step)(nil)
