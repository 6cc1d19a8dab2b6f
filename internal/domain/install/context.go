package install

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// Warning is one recoverable problem recorded during the run.
type Warning struct {
	StepID  StepID
	Message string
}

// RunContext is the single run-scoped mutable state.
//
// It is owned exclusively by the sequencer and passed by reference to
// steps. Steps mutate forward-looking fields (runtime path, source path)
// on success only, so later steps detect gaps through their own probes
// rather than trusting optimistic state.
type RunContext struct {
	ctx      context.Context
	runID    string
	logger   ports.Logger
	platform *platform.Platform

	installPath string
	overwrite   bool

	// Set by steps on success only.
	runtimeVersion string
	runtimePath    string
	sourcePath     string

	// Credential material; scrubbed after the fetch step.
	tokenSecret string
	tokenLogin  string

	warnings []Warning
}

// NewRunContext creates the state for one run.
func NewRunContext(ctx context.Context, plat *platform.Platform, logger ports.Logger, installPath string, overwrite bool) *RunContext {
	return &RunContext{
		ctx:         ctx,
		runID:       uuid.NewString(),
		logger:      logger,
		platform:    plat,
		installPath: installPath,
		overwrite:   overwrite,
	}
}

// Context returns the cancellation context for this run.
func (c *RunContext) Context() context.Context {
	return c.ctx
}

// RunID returns the unique identifier of this run.
func (c *RunContext) RunID() string {
	return c.runID
}

// Logger returns the run logger.
func (c *RunContext) Logger() ports.Logger {
	return c.logger
}

// Platform returns the detected platform facts.
func (c *RunContext) Platform() *platform.Platform {
	return c.platform
}

// InstallPath returns the resolved target install directory.
func (c *RunContext) InstallPath() string {
	return c.installPath
}

// Overwrite reports whether an existing install directory may be removed.
func (c *RunContext) Overwrite() bool {
	return c.overwrite
}

// RuntimeVersion returns the resolved language runtime version, or ""
// when no runtime step has succeeded yet.
func (c *RunContext) RuntimeVersion() string {
	return c.runtimeVersion
}

// SetRuntimeVersion records the resolved runtime version.
func (c *RunContext) SetRuntimeVersion(v string) {
	c.runtimeVersion = v
}

// RuntimePath returns the resolved runtime executable path, or "".
func (c *RunContext) RuntimePath() string {
	return c.runtimePath
}

// SetRuntimePath records the resolved runtime executable path.
func (c *RunContext) SetRuntimePath(p string) {
	c.runtimePath = p
}

// SourcePath returns the fetched application source directory, or "".
func (c *RunContext) SourcePath() string {
	return c.sourcePath
}

// SetSourcePath records the fetched application source directory.
func (c *RunContext) SetSourcePath(p string) {
	c.sourcePath = p
}

// SetCredential records the validated credential for the fetch step.
func (c *RunContext) SetCredential(secret, login string) {
	c.tokenSecret = secret
	c.tokenLogin = login
}

// CredentialSecret returns the credential secret ("" after scrubbing).
func (c *RunContext) CredentialSecret() string {
	return c.tokenSecret
}

// CredentialLogin returns the identity the credential validated as.
func (c *RunContext) CredentialLogin() string {
	return c.tokenLogin
}

// ScrubCredential clears the secret from the run state. The identity is
// kept for the summary; the secret never outlives the step that used it.
func (c *RunContext) ScrubCredential() {
	c.tokenSecret = ""
}

// AddWarning appends a recoverable problem to the run record.
func (c *RunContext) AddWarning(id StepID, message string) {
	c.warnings = append(c.warnings, Warning{StepID: id, Message: message})
}

// Warnings returns a copy of all warnings accumulated so far.
func (c *RunContext) Warnings() []Warning {
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}
