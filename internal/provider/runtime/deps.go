package runtime

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// RequirementsFile is the dependency manifest name inside the install
// directory.
const RequirementsFile = "requirements.txt"

// requirementsManifest pins the transcription app's Python dependencies.
const requirementsManifest = `faster-whisper>=1.0
sounddevice>=0.4
soundfile>=0.12
numpy>=1.26
`

// sentinelPackage is the dependency whose presence in the environment
// marks the manifest as installed.
const sentinelPackage = "faster-whisper"

// DepsStep writes the dependency manifest and installs it into the
// virtual environment.
type DepsStep struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewDepsStep creates the dependency install step.
func NewDepsStep(runner ports.CommandRunner, fs ports.FileSystem) *DepsStep {
	return &DepsStep{runner: runner, fs: fs}
}

// ID returns the step identifier.
func (s *DepsStep) ID() install.StepID {
	return install.MustNewStepID("runtime:deps")
}

// Description returns the step label.
func (s *DepsStep) Description() string {
	return "install Python dependencies"
}

// Policy returns PolicyFatal; the app cannot start without its deps.
func (s *DepsStep) Policy() install.FailurePolicy {
	return install.PolicyFatal
}

// AppliesTo runs on every supported platform.
func (s *DepsStep) AppliesTo(p *platform.Platform) bool {
	return p.Supported()
}

// Check asks pip inside the environment whether the sentinel package is
// installed.
func (s *DepsStep) Check(rc *install.RunContext) (install.Status, string, error) {
	py := VenvPython(rc.Platform(), rc.InstallPath())
	if !s.fs.Exists(py) {
		return install.StatusNeedsApply, "virtual environment absent", nil
	}
	result, err := s.runner.Run(rc.Context(), py, "-m", "pip", "show", sentinelPackage)
	if err != nil {
		return install.StatusUnknown, "", err
	}
	if result.Success() {
		return install.StatusSatisfied, sentinelPackage + " installed", nil
	}
	return install.StatusNeedsApply, sentinelPackage + " missing", nil
}

// Apply writes the manifest into the install directory and pip-installs
// it into the environment.
func (s *DepsStep) Apply(rc *install.RunContext) error {
	manifest := filepath.Join(rc.InstallPath(), RequirementsFile)
	if err := s.fs.WriteFile(manifest, []byte(requirementsManifest), 0o644); err != nil {
		return fmt.Errorf("writing dependency manifest: %w", err)
	}

	py := VenvPython(rc.Platform(), rc.InstallPath())
	result, err := s.runner.Run(rc.Context(), py, "-m", "pip", "install", "--upgrade", "-r", manifest)
	if err != nil {
		return fmt.Errorf("installing dependencies: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("pip install failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure DepsStep implements install.Step.
var _ install.Step = (*DepsStep)(nil)
