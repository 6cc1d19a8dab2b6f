// Package source manages the install directory and the authenticated
// fetch of the application source. Both steps are fatal: without the
// source tree there is nothing to install.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/stagehand/internal/domain/config"
	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// sourceMarker identifies an install directory already holding the
// application source.
const sourceMarker = "pyproject.toml"

// DirStep prepares the install directory. An existing directory aborts
// the run unless overwrite was requested, in which case it is removed
// entirely. Merging into leftover state is never attempted.
type DirStep struct {
	fs ports.FileSystem
}

// NewDirStep creates the install directory step.
func NewDirStep(fs ports.FileSystem) *DirStep {
	return &DirStep{fs: fs}
}

// ID returns the step identifier.
func (s *DirStep) ID() install.StepID {
	return install.MustNewStepID("source:directory")
}

// Description returns the step label.
func (s *DirStep) Description() string {
	return "prepare install directory"
}

// Policy returns PolicyFatal.
func (s *DirStep) Policy() install.FailurePolicy {
	return install.PolicyFatal
}

// AppliesTo runs on every supported platform.
func (s *DirStep) AppliesTo(p *platform.Platform) bool {
	return p.Supported()
}

// Check reports the directory state. The contents listing carries the
// detail needed for the overwrite-or-abort decision in Apply; a
// directory already holding the source counts as satisfied.
func (s *DirStep) Check(rc *install.RunContext) (install.Status, string, error) {
	path := rc.InstallPath()
	if !s.fs.Exists(path) {
		return install.StatusNeedsApply, "absent", nil
	}
	if s.fs.Exists(filepath.Join(path, sourceMarker)) && !rc.Overwrite() {
		return install.StatusSatisfied, "source already present", nil
	}

	entries, err := s.fs.ListDir(path)
	if err != nil {
		return install.StatusUnknown, "", err
	}
	detail := fmt.Sprintf("exists with %d entries", len(entries))
	if len(entries) > 0 {
		detail += ": " + strings.Join(truncate(entries, 5), ", ")
	}
	return install.StatusNeedsApply, detail, nil
}

// Apply creates the directory, removing a pre-existing one only when
// overwrite was requested.
func (s *DirStep) Apply(rc *install.RunContext) error {
	path := rc.InstallPath()
	if s.fs.Exists(path) {
		if !rc.Overwrite() {
			return &config.UserError{
				Code:       config.ErrCodeInstallDirExists,
				Message:    "install directory already exists",
				Context:    path,
				Suggestion: "re-run with --force to replace it, or choose another --path",
			}
		}
		if err := s.fs.RemoveAll(path); err != nil {
			return fmt.Errorf("removing existing install directory: %w", err)
		}
	}
	if err := s.fs.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating install directory: %w", err)
	}
	return nil
}

func truncate(entries []string, n int) []string {
	if len(entries) <= n {
		return entries
	}
	out := make([]string, n+1)
	copy(out, entries[:n])
	out[n] = "..."
	return out
}

// FetchStep clones the application source with the validated credential,
// falling back to a tarball download when git is unavailable. The secret
// is scrubbed from the run state and from the clone remote once the
// fetch finishes, whatever the outcome.
type FetchStep struct {
	runner  ports.CommandRunner
	locator ports.CommandLocator
	fs      ports.FileSystem
	repo    ports.RepoService
	ref     config.RepoRef
}

// NewFetchStep creates the source fetch step.
func NewFetchStep(runner ports.CommandRunner, locator ports.CommandLocator, fs ports.FileSystem, repo ports.RepoService, ref config.RepoRef) *FetchStep {
	return &FetchStep{runner: runner, locator: locator, fs: fs, repo: repo, ref: ref}
}

// ID returns the step identifier.
func (s *FetchStep) ID() install.StepID {
	return install.MustNewStepID("source:fetch")
}

// Description returns the step label.
func (s *FetchStep) Description() string {
	return "fetch " + s.ref.String()
}

// Policy returns PolicyFatal.
func (s *FetchStep) Policy() install.FailurePolicy {
	return install.PolicyFatal
}

// AppliesTo runs on every supported platform.
func (s *FetchStep) AppliesTo(p *platform.Platform) bool {
	return p.Supported()
}

// Check probes for the source marker inside the install directory.
func (s *FetchStep) Check(rc *install.RunContext) (install.Status, string, error) {
	marker := filepath.Join(rc.InstallPath(), sourceMarker)
	if s.fs.Exists(marker) {
		return install.StatusSatisfied, marker, nil
	}
	return install.StatusNeedsApply, "source absent", nil
}

// Apply fetches the source tree into the install directory.
func (s *FetchStep) Apply(rc *install.RunContext) error {
	token := rc.CredentialSecret()
	defer rc.ScrubCredential()

	var err error
	if _, gitErr := s.locator.LookPath("git"); gitErr == nil {
		err = s.cloneWithGit(rc, token)
	} else {
		_, err = s.repo.DownloadArchive(rc.Context(), token, s.ref.Owner, s.ref.Name, s.ref.Ref, rc.InstallPath())
	}
	if err != nil {
		return err
	}

	rc.SetSourcePath(rc.InstallPath())
	return nil
}

func (s *FetchStep) cloneWithGit(rc *install.RunContext, token string) error {
	authURL := fmt.Sprintf("https://x-access-token:%s@github.com/%s/%s.git", token, s.ref.Owner, s.ref.Name)
	cleanURL := fmt.Sprintf("https://github.com/%s/%s.git", s.ref.Owner, s.ref.Name)

	result, err := s.runner.Run(rc.Context(), "git",
		"clone", "--depth", "1", "--branch", s.ref.Ref, authURL, rc.InstallPath())
	if err != nil {
		return fmt.Errorf("cloning source: %w", redact(err, token))
	}
	if !result.Success() {
		// git error output can echo the remote URL; never leak the secret.
		stderr := strings.ReplaceAll(strings.TrimSpace(result.Stderr), token, "***")
		return fmt.Errorf("git clone failed: %s", stderr)
	}

	// The token must not survive in the checkout's remote configuration.
	result, err = s.runner.Run(rc.Context(), "git", "-C", rc.InstallPath(), "remote", "set-url", "origin", cleanURL)
	if err != nil {
		return fmt.Errorf("scrubbing clone remote: %w", redact(err, token))
	}
	if !result.Success() {
		return fmt.Errorf("scrubbing clone remote failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// redact replaces the secret in an error's text.
func redact(err error, token string) error {
	if err == nil || token == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, token) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(msg, token, "***"))
}

// Ensure steps implement install.Step.
var (
	_ install.Step = (*DirStep)(nil)
	_ install.Step = (*FetchStep)(nil)
)
