// Package launcher writes the last-mile artifacts into the install
// directory: a launch script wired to the virtual environment and a
// preferences file the app reads on first start. Both steps are
// warn-only; a missing convenience script does not invalidate the
// install.
package launcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// PrefsFile is the preferences file name inside the install directory.
const PrefsFile = "preferences.json"

// defaultPrefs seeds the app's first-start configuration. The file is
// user-owned after creation and never overwritten.
type prefs struct {
	Provider     string `json:"provider"`
	DefaultModel string `json:"default_model"`
}

var defaultPrefs = prefs{
	Provider:     "faster-whisper",
	DefaultModel: "small",
}

const windowsScript = `@echo off
"%~dp0.venv\Scripts\python.exe" -m scribe %*
`

const unixScript = `#!/bin/sh
exec "$(dirname "$0")/.venv/bin/python" -m scribe "$@"
`

// ScriptName returns the launch script file name for the platform.
func ScriptName(plat *platform.Platform) string {
	if plat.IsWindows() {
		return "scribe.cmd"
	}
	return "scribe.sh"
}

// ScriptStep writes the launch script.
type ScriptStep struct {
	fs ports.FileSystem
}

// NewScriptStep creates the launch script step.
func NewScriptStep(fs ports.FileSystem) *ScriptStep {
	return &ScriptStep{fs: fs}
}

// ID returns the step identifier.
func (s *ScriptStep) ID() install.StepID {
	return install.MustNewStepID("launcher:script")
}

// Description returns the step label.
func (s *ScriptStep) Description() string {
	return "write launch script"
}

// Policy returns PolicyWarn.
func (s *ScriptStep) Policy() install.FailurePolicy {
	return install.PolicyWarn
}

// AppliesTo runs on every supported platform.
func (s *ScriptStep) AppliesTo(p *platform.Platform) bool {
	return p.Supported()
}

// Check probes for the script next to the virtual environment.
func (s *ScriptStep) Check(rc *install.RunContext) (install.Status, string, error) {
	path := filepath.Join(rc.InstallPath(), ScriptName(rc.Platform()))
	if s.fs.Exists(path) {
		return install.StatusSatisfied, path, nil
	}
	return install.StatusNeedsApply, "launch script absent", nil
}

// Apply writes the platform's launch script. The script resolves the
// interpreter relative to its own location, so the install directory
// stays relocatable.
func (s *ScriptStep) Apply(rc *install.RunContext) error {
	path := filepath.Join(rc.InstallPath(), ScriptName(rc.Platform()))
	content := unixScript
	perm := fs0755
	if rc.Platform().IsWindows() {
		content = windowsScript
		perm = fs0644
	}
	if err := s.fs.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("writing launch script: %w", err)
	}
	return nil
}

const (
	fs0644 os.FileMode = 0o644
	fs0755 os.FileMode = 0o755
)

// PrefsStep creates the preferences file if absent. Existing preferences
// belong to the user and are never touched.
type PrefsStep struct {
	fs ports.FileSystem
}

// NewPrefsStep creates the preferences step.
func NewPrefsStep(fs ports.FileSystem) *PrefsStep {
	return &PrefsStep{fs: fs}
}

// ID returns the step identifier.
func (s *PrefsStep) ID() install.StepID {
	return install.MustNewStepID("launcher:preferences")
}

// Description returns the step label.
func (s *PrefsStep) Description() string {
	return "seed preferences file"
}

// Policy returns PolicyWarn.
func (s *PrefsStep) Policy() install.FailurePolicy {
	return install.PolicyWarn
}

// AppliesTo runs on every supported platform.
func (s *PrefsStep) AppliesTo(p *platform.Platform) bool {
	return p.Supported()
}

// Check treats an existing file as satisfied regardless of content.
func (s *PrefsStep) Check(rc *install.RunContext) (install.Status, string, error) {
	path := filepath.Join(rc.InstallPath(), PrefsFile)
	if s.fs.Exists(path) {
		return install.StatusSatisfied, path, nil
	}
	return install.StatusNeedsApply, "preferences absent", nil
}

// Apply writes the default preferences.
func (s *PrefsStep) Apply(rc *install.RunContext) error {
	data, err := json.MarshalIndent(defaultPrefs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	path := filepath.Join(rc.InstallPath(), PrefsFile)
	if err := s.fs.WriteFile(path, append(data, '\n'), fs0644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}

// Ensure steps implement install.Step.
var (
	_ install.Step = (*ScriptStep)(nil)
	_ install.Step = (*PrefsStep)(nil)
)
