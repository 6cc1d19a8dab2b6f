// Package pkgmgr ensures the platform package manager is present.
// Everything downstream (runtime, vcredist, virtual audio) installs
// through it, so its absence aborts the run.
package pkgmgr

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
	"github.com/felixgeelhaar/stagehand/internal/provider/probe"
)

const chocoInstallScript = `[System.Net.ServicePointManager]::SecurityProtocol = [System.Net.ServicePointManager]::SecurityProtocol -bor 3072; iex ((New-Object System.Net.WebClient).DownloadString('https://community.chocolatey.org/install.ps1'))`

const brewInstallScript = `NONINTERACTIVE=1 /bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`

// ChocoFallbacks are the well-known Chocolatey shim locations consulted
// when choco is installed but not yet on PATH.
func ChocoFallbacks() []string {
	root := os.Getenv("ProgramData")
	if root == "" {
		root = `C:\ProgramData`
	}
	return []string{filepath.Join(root, "chocolatey", "bin", "choco.exe")}
}

// BrewFallbacks are the standard Homebrew prefixes for Apple Silicon and
// Intel Macs.
func BrewFallbacks() []string {
	return []string{"/opt/homebrew/bin/brew", "/usr/local/bin/brew"}
}

// Resolve returns the package manager executable for the platform, or
// ("", false) when it is not installed yet.
func Resolve(plat *platform.Platform, locator ports.CommandLocator, fs ports.FileSystem) (string, bool) {
	if plat.IsWindows() {
		return probe.FindExecutable(locator, fs, "choco", ChocoFallbacks()...)
	}
	return probe.FindExecutable(locator, fs, "brew", BrewFallbacks()...)
}

// EnsureStep installs Chocolatey on Windows or Homebrew on macOS.
type EnsureStep struct {
	runner  ports.CommandRunner
	locator ports.CommandLocator
	fs      ports.FileSystem
}

// NewEnsureStep creates the package manager bootstrap step.
func NewEnsureStep(runner ports.CommandRunner, locator ports.CommandLocator, fs ports.FileSystem) *EnsureStep {
	return &EnsureStep{runner: runner, locator: locator, fs: fs}
}

// ID returns the step identifier.
func (s *EnsureStep) ID() install.StepID {
	return install.MustNewStepID("pkgmgr:ensure")
}

// Description returns the step label.
func (s *EnsureStep) Description() string {
	return "ensure package manager"
}

// Policy returns PolicyFatal; without a package manager nothing else
// can install.
func (s *EnsureStep) Policy() install.FailurePolicy {
	return install.PolicyFatal
}

// AppliesTo runs on every supported platform.
func (s *EnsureStep) AppliesTo(p *platform.Platform) bool {
	return p.Supported()
}

// Check probes for the package manager executable.
func (s *EnsureStep) Check(rc *install.RunContext) (install.Status, string, error) {
	if path, ok := Resolve(rc.Platform(), s.locator, s.fs); ok {
		return install.StatusSatisfied, path, nil
	}
	return install.StatusNeedsApply, "package manager not found", nil
}

// Apply runs the official install script.
func (s *EnsureStep) Apply(rc *install.RunContext) error {
	if rc.Platform().IsWindows() {
		return s.installChocolatey(rc)
	}
	return s.installHomebrew(rc)
}

func (s *EnsureStep) installChocolatey(rc *install.RunContext) error {
	result, err := s.runner.Run(rc.Context(), "powershell",
		"-NoProfile", "-InputFormat", "None", "-ExecutionPolicy", "Bypass",
		"-Command", chocoInstallScript)
	if err != nil {
		return fmt.Errorf("installing chocolatey: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("chocolatey install failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

func (s *EnsureStep) installHomebrew(rc *install.RunContext) error {
	result, err := s.runner.Run(rc.Context(), "/bin/bash", "-c", brewInstallScript)
	if err != nil {
		return fmt.Errorf("installing homebrew: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("homebrew install failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure EnsureStep implements install.Step.
var _ install.Step = (*EnsureStep)(nil)
