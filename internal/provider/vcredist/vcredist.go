// Package vcredist installs the Visual C++ runtime some Python audio
// wheels link against. Windows only; failure degrades to a warning
// because most wheels bundle their own copy.
package vcredist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
	"github.com/felixgeelhaar/stagehand/internal/provider/pkgmgr"
)

// Step installs the VC++ 2015-2022 redistributable via Chocolatey.
type Step struct {
	runner  ports.CommandRunner
	locator ports.CommandLocator
	fs      ports.FileSystem
}

// NewStep creates the redistributable step.
func NewStep(runner ports.CommandRunner, locator ports.CommandLocator, fs ports.FileSystem) *Step {
	return &Step{runner: runner, locator: locator, fs: fs}
}

// ID returns the step identifier.
func (s *Step) ID() install.StepID {
	return install.MustNewStepID("vcredist:140")
}

// Description returns the step label.
func (s *Step) Description() string {
	return "install Visual C++ redistributable"
}

// Policy returns PolicyWarn.
func (s *Step) Policy() install.FailurePolicy {
	return install.PolicyWarn
}

// AppliesTo runs on Windows only.
func (s *Step) AppliesTo(p *platform.Platform) bool {
	return p.IsWindows()
}

// Check probes for the runtime DLL in the system directory.
func (s *Step) Check(rc *install.RunContext) (install.Status, string, error) {
	root := os.Getenv("SystemRoot")
	if root == "" {
		root = `C:\Windows`
	}
	dll := filepath.Join(root, "System32", "vcruntime140.dll")
	if s.fs.Exists(dll) {
		return install.StatusSatisfied, dll, nil
	}
	return install.StatusNeedsApply, "vcruntime140.dll absent", nil
}

// Apply installs the redistributable package.
func (s *Step) Apply(rc *install.RunContext) error {
	pm, ok := pkgmgr.Resolve(rc.Platform(), s.locator, s.fs)
	if !ok {
		return fmt.Errorf("package manager not available")
	}
	result, err := s.runner.Run(rc.Context(), pm, "install", "vcredist140", "-y", "--no-progress")
	if err != nil {
		return fmt.Errorf("installing vcredist: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("vcredist install failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure Step implements install.Step.
var _ install.Step = (*Step)(nil)
