// Package runtime provisions the Python runtime the transcription app
// runs on: interpreter install, virtual environment, and dependency
// install into that environment. All three steps carry the fatal policy.
package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
	"github.com/felixgeelhaar/stagehand/internal/provider/pkgmgr"
	"github.com/felixgeelhaar/stagehand/internal/provider/probe"
)

var versionPattern = regexp.MustCompile(`Python (\d+\.\d+(?:\.\d+)?)`)

// interpreterFallbacks returns well-known interpreter locations for
// installs whose PATH entry has not taken effect yet.
func interpreterFallbacks(plat *platform.Platform, version string) []string {
	if plat.IsWindows() {
		short := "Python" + strings.ReplaceAll(version, ".", "")
		var paths []string
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			paths = append(paths, filepath.Join(local, "Programs", "Python", short, "python.exe"))
		}
		paths = append(paths, filepath.Join(`C:\`, short, "python.exe"))
		return paths
	}
	return []string{
		"/opt/homebrew/bin/python3",
		"/usr/local/bin/python3",
	}
}

// findInterpreter locates a Python interpreter meeting the minimum
// version, returning its path and reported version.
func findInterpreter(rc *install.RunContext, runner ports.CommandRunner, locator ports.CommandLocator, fs ports.FileSystem, minVersion string) (string, string, bool) {
	candidates := []string{"python3", "python"}
	for _, name := range candidates {
		path, ok := probe.FindExecutable(locator, fs, name, interpreterFallbacks(rc.Platform(), minVersion)...)
		if !ok {
			continue
		}
		version, err := interpreterVersion(rc, runner, path)
		if err != nil {
			continue
		}
		if meetsMinimum(version, minVersion) {
			return path, version, true
		}
	}
	return "", "", false
}

func interpreterVersion(rc *install.RunContext, runner ports.CommandRunner, path string) (string, error) {
	result, err := runner.Run(rc.Context(), path, "--version")
	if err != nil {
		return "", err
	}
	// Older interpreters print the version on stderr.
	out := result.Stdout + result.Stderr
	m := versionPattern.FindStringSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("unrecognized version output: %q", strings.TrimSpace(out))
	}
	return m[1], nil
}

// meetsMinimum compares dotted versions with the canonical semver rules.
func meetsMinimum(version, minimum string) bool {
	v := "v" + version
	min := "v" + minimum
	if !semver.IsValid(v) || !semver.IsValid(min) {
		return false
	}
	return semver.Compare(v, min) >= 0
}

// InstallStep installs the Python interpreter via the package manager.
type InstallStep struct {
	runner     ports.CommandRunner
	locator    ports.CommandLocator
	fs         ports.FileSystem
	minVersion string
}

// NewInstallStep creates the interpreter install step. minVersion is the
// dotted floor (e.g. "3.11").
func NewInstallStep(runner ports.CommandRunner, locator ports.CommandLocator, fs ports.FileSystem, minVersion string) *InstallStep {
	return &InstallStep{runner: runner, locator: locator, fs: fs, minVersion: minVersion}
}

// ID returns the step identifier.
func (s *InstallStep) ID() install.StepID {
	return install.MustNewStepID("runtime:python")
}

// Description returns the step label.
func (s *InstallStep) Description() string {
	return "install Python " + s.minVersion + "+"
}

// Policy returns PolicyFatal.
func (s *InstallStep) Policy() install.FailurePolicy {
	return install.PolicyFatal
}

// AppliesTo runs on every supported platform.
func (s *InstallStep) AppliesTo(p *platform.Platform) bool {
	return p.Supported()
}

// Check probes for an interpreter at or above the floor version.
func (s *InstallStep) Check(rc *install.RunContext) (install.Status, string, error) {
	if path, version, ok := findInterpreter(rc, s.runner, s.locator, s.fs, s.minVersion); ok {
		return install.StatusSatisfied, fmt.Sprintf("Python %s at %s", version, path), nil
	}
	return install.StatusNeedsApply, "no interpreter >= " + s.minVersion, nil
}

// Apply installs the interpreter and records the resolved version and
// path in the run context.
func (s *InstallStep) Apply(rc *install.RunContext) error {
	pm, ok := pkgmgr.Resolve(rc.Platform(), s.locator, s.fs)
	if !ok {
		return fmt.Errorf("package manager not available")
	}

	var result ports.CommandResult
	var err error
	if rc.Platform().IsWindows() {
		result, err = s.runner.Run(rc.Context(), pm, "install", "python", "--version="+s.minVersion, "-y", "--no-progress")
	} else {
		result, err = s.runner.Run(rc.Context(), pm, "install", "python@"+s.minVersion)
	}
	if err != nil {
		return fmt.Errorf("installing python: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("python install failed: %s", strings.TrimSpace(result.Stderr))
	}

	path, version, ok := findInterpreter(rc, s.runner, s.locator, s.fs, s.minVersion)
	if !ok {
		return fmt.Errorf("python installed but no interpreter >= %s found", s.minVersion)
	}
	rc.SetRuntimeVersion(version)
	rc.SetRuntimePath(path)
	return nil
}

// VenvStep creates the application virtual environment inside the
// install directory.
type VenvStep struct {
	runner     ports.CommandRunner
	locator    ports.CommandLocator
	fs         ports.FileSystem
	minVersion string
}

// NewVenvStep creates the virtual environment step.
func NewVenvStep(runner ports.CommandRunner, locator ports.CommandLocator, fs ports.FileSystem, minVersion string) *VenvStep {
	return &VenvStep{runner: runner, locator: locator, fs: fs, minVersion: minVersion}
}

// ID returns the step identifier.
func (s *VenvStep) ID() install.StepID {
	return install.MustNewStepID("runtime:venv")
}

// Description returns the step label.
func (s *VenvStep) Description() string {
	return "create virtual environment"
}

// Policy returns PolicyFatal.
func (s *VenvStep) Policy() install.FailurePolicy {
	return install.PolicyFatal
}

// AppliesTo runs on every supported platform.
func (s *VenvStep) AppliesTo(p *platform.Platform) bool {
	return p.Supported()
}

// VenvDir returns the virtual environment directory under installPath.
func VenvDir(installPath string) string {
	return filepath.Join(installPath, ".venv")
}

// VenvPython returns the interpreter inside the virtual environment.
func VenvPython(plat *platform.Platform, installPath string) string {
	if plat.IsWindows() {
		return filepath.Join(VenvDir(installPath), "Scripts", "python.exe")
	}
	return filepath.Join(VenvDir(installPath), "bin", "python")
}

// Check probes for an existing environment marker file.
func (s *VenvStep) Check(rc *install.RunContext) (install.Status, string, error) {
	cfg := filepath.Join(VenvDir(rc.InstallPath()), "pyvenv.cfg")
	if s.fs.Exists(cfg) {
		return install.StatusSatisfied, VenvDir(rc.InstallPath()), nil
	}
	return install.StatusNeedsApply, "virtual environment absent", nil
}

// Apply creates the environment with the interpreter resolved earlier in
// the run, falling back to its own probe when the install step was
// skipped as already satisfied.
func (s *VenvStep) Apply(rc *install.RunContext) error {
	interpreter := rc.RuntimePath()
	if interpreter == "" {
		path, version, ok := findInterpreter(rc, s.runner, s.locator, s.fs, s.minVersion)
		if !ok {
			return fmt.Errorf("no usable interpreter for virtual environment")
		}
		interpreter = path
		rc.SetRuntimeVersion(version)
		rc.SetRuntimePath(path)
	}

	result, err := s.runner.Run(rc.Context(), interpreter, "-m", "venv", VenvDir(rc.InstallPath()))
	if err != nil {
		return fmt.Errorf("creating virtual environment: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("venv creation failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure steps implement install.Step.
var (
	_ install.Step = (*InstallStep)(nil)
	_ install.Step = (*VenvStep)(nil)
)
