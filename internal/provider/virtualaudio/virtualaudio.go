// Package virtualaudio installs a virtual loopback cable so the app can
// capture system audio. Opt-in and warn-only: a microphone-only setup is
// still functional.
package virtualaudio

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
	"github.com/felixgeelhaar/stagehand/internal/provider/pkgmgr"
)

// blackholeDriver is where CoreAudio loads the BlackHole plugin from.
const blackholeDriver = "/Library/Audio/Plug-Ins/HAL/BlackHole2ch.driver"

// vbCableDir is the default VB-CABLE driver install location.
const vbCableDir = `C:\Program Files\VB\CABLE`

// Step installs VB-CABLE on Windows or BlackHole on macOS.
type Step struct {
	runner  ports.CommandRunner
	locator ports.CommandLocator
	fs      ports.FileSystem
}

// NewStep creates the virtual cable install step.
func NewStep(runner ports.CommandRunner, locator ports.CommandLocator, fs ports.FileSystem) *Step {
	return &Step{runner: runner, locator: locator, fs: fs}
}

// ID returns the step identifier.
func (s *Step) ID() install.StepID {
	return install.MustNewStepID("virtualaudio:cable")
}

// Description returns the step label.
func (s *Step) Description() string {
	return "install virtual audio cable"
}

// Policy returns PolicyWarn.
func (s *Step) Policy() install.FailurePolicy {
	return install.PolicyWarn
}

// AppliesTo runs on every supported platform.
func (s *Step) AppliesTo(p *platform.Platform) bool {
	return p.Supported()
}

// Check probes for the installed driver at its well-known location.
func (s *Step) Check(rc *install.RunContext) (install.Status, string, error) {
	marker := blackholeDriver
	if rc.Platform().IsWindows() {
		marker = vbCableDir
	}
	if s.fs.Exists(marker) {
		return install.StatusSatisfied, marker, nil
	}
	return install.StatusNeedsApply, "virtual cable driver absent", nil
}

// Apply installs the platform's virtual cable through the package
// manager.
func (s *Step) Apply(rc *install.RunContext) error {
	pm, ok := pkgmgr.Resolve(rc.Platform(), s.locator, s.fs)
	if !ok {
		return fmt.Errorf("package manager not available")
	}

	var result ports.CommandResult
	var err error
	if rc.Platform().IsWindows() {
		result, err = s.runner.Run(rc.Context(), pm, "install", "vb-cable", "-y", "--no-progress")
	} else {
		result, err = s.runner.Run(rc.Context(), pm, "install", "blackhole-2ch")
	}
	if err != nil {
		return fmt.Errorf("installing virtual cable: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("virtual cable install failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure Step implements install.Step.
var _ install.Step = (*Step)(nil)
