// Package app wires the domain pipeline to the adapters: it builds the
// platform's installation plan, runs the credential gate, drives the
// sequencer and finishes with the audio device configurator.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/felixgeelhaar/stagehand/internal/domain/audio"
	"github.com/felixgeelhaar/stagehand/internal/domain/config"
	"github.com/felixgeelhaar/stagehand/internal/domain/credential"
	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
	"github.com/felixgeelhaar/stagehand/internal/provider/launcher"
	"github.com/felixgeelhaar/stagehand/internal/provider/pkgmgr"
	"github.com/felixgeelhaar/stagehand/internal/provider/runtime"
	"github.com/felixgeelhaar/stagehand/internal/provider/source"
	"github.com/felixgeelhaar/stagehand/internal/provider/vcredist"
	"github.com/felixgeelhaar/stagehand/internal/provider/virtualaudio"
	"github.com/felixgeelhaar/stagehand/internal/provider/wsl"
)

// Presenter renders run progress, the audio report and the closing
// summary of a successful run.
type Presenter interface {
	install.Reporter
	AudioReport(audio.Report)

	// FinalSummary is emitted once, after the audio phase, with the
	// complete run record and the launch script to run next.
	FinalSummary(s install.Summary, launchPath string)
}

// Deps bundles the external seams the installer is wired with.
type Deps struct {
	Logger    ports.Logger
	Runner    ports.CommandRunner
	Locator   ports.CommandLocator
	FS        ports.FileSystem
	Prompter  ports.Prompter
	Repo      ports.RepoService
	Registry  audio.Registry
	Presenter Presenter
}

// Installer orchestrates one provisioning run end to end.
type Installer struct {
	deps Deps
	gate *credential.Gate
}

// NewInstaller creates an installer from its dependencies.
func NewInstaller(deps Deps) *Installer {
	return &Installer{
		deps: deps,
		gate: credential.NewGate(deps.Prompter, deps.Repo, deps.Logger),
	}
}

// Run executes the full pipeline and returns the process exit code.
// A fatal step, a rejected credential or an unsupported platform yield 1;
// warnings alone never change the exit code.
func (i *Installer) Run(ctx context.Context, plat *platform.Platform, opts config.Options, token string) (int, error) {
	if !plat.Supported() {
		return 1, &config.UserError{
			Code:       config.ErrCodePlatformUnsupported,
			Message:    fmt.Sprintf("platform %s is not supported", plat),
			Suggestion: "stagehand provisions Windows and macOS machines only",
		}
	}

	if opts.AudioOnly {
		i.RunAudio(ctx, plat)
		return 0, nil
	}

	i.checkHostFacts(ctx, plat)

	plan := i.buildPlan(plat, opts)
	if err := plan.Validate(); err != nil {
		return 1, fmt.Errorf("invalid installation plan: %w", err)
	}

	// The gate runs before the first step: a bad credential must fail the
	// run before anything touches the machine.
	cred, err := i.gate.Obtain(ctx, token)
	if err != nil {
		return 1, &config.UserError{
			Code:       config.ErrCodeCredentialInvalid,
			Message:    "credential validation failed",
			Suggestion: "check the token's scopes and expiry, then re-run",
			Underlying: err,
		}
	}

	rc := install.NewRunContext(ctx, plat, i.deps.Logger, opts.InstallPath, opts.Overwrite)
	rc.SetCredential(cred.Secret(), cred.Login())
	cred.Scrub()

	summary := i.runPipeline(rc, plan)
	if summary.Aborted {
		return summary.ExitCode(), summary.Cause
	}

	// Device configuration is the tail of every successful run. It warns,
	// it never fails the process. The final summary comes after it.
	i.RunAudio(ctx, plat)

	if i.deps.Presenter != nil {
		launchPath := filepath.Join(opts.InstallPath, launcher.ScriptName(plat))
		i.deps.Presenter.FinalSummary(summary, launchPath)
	}

	return summary.ExitCode(), nil
}

// runPipeline drives the sequencer and guarantees the credential secret
// does not outlive it: the fetch step scrubs on apply, but a skipped
// fetch would otherwise leave the secret in the run state until exit.
func (i *Installer) runPipeline(rc *install.RunContext, plan *install.Plan) install.Summary {
	summary := install.NewSequencer(i.deps.Presenter).Run(rc, plan)
	rc.ScrubCredential()
	return summary
}

// RunAudio executes the device configuration state machine and renders
// its report. Used standalone by the audio diagnostic command and as the
// final phase of a full run; in both cases the exit code stays 0.
func (i *Installer) RunAudio(ctx context.Context, plat *platform.Platform) audio.Report {
	configurator := audio.NewConfigurator(i.deps.Registry, plat, i.deps.Logger)
	report := configurator.Run(ctx)
	if i.deps.Presenter != nil {
		i.deps.Presenter.AudioReport(report)
	}
	return report
}

// minFreeBytes is the advisory free-space floor on the install volume:
// runtime, model weights and dependencies together need a few gigabytes.
const minFreeBytes = 2 << 30

// checkHostFacts logs advisory warnings about host conditions that make
// individual steps likely to fail. Advisory only: the steps themselves
// carry the authoritative failure policy.
func (i *Installer) checkHostFacts(ctx context.Context, plat *platform.Platform) {
	if plat.IsWindows() && !plat.Elevated() {
		i.deps.Logger.Warn(ctx, "not running elevated; driver and system component installs may fail")
	}
	if free := plat.FreeBytes(); free > 0 && free < minFreeBytes {
		i.deps.Logger.Warn(ctx, "low disk space on install volume",
			ports.F("free_bytes", free))
	}
}

// buildPlan assembles the ordered step list for the platform. The order
// is fixed: package manager, runtime, Windows system features, source
// tree, environment, dependencies, then the optional extras.
func (i *Installer) buildPlan(plat *platform.Platform, opts config.Options) *install.Plan {
	d := i.deps
	plan := install.NewPlan()

	plan.Add(
		pkgmgr.NewEnsureStep(d.Runner, d.Locator, d.FS),
		runtime.NewInstallStep(d.Runner, d.Locator, d.FS, opts.PythonVersion),
	)

	if plat.IsWindows() {
		plan.Add(vcredist.NewStep(d.Runner, d.Locator, d.FS))
		if opts.WithWSL {
			// Enabling an OS feature is opt-in per run, never implicit.
			plan.Add(wsl.NewStep(d.Runner))
		}
	}

	plan.Add(
		source.NewDirStep(d.FS),
		source.NewFetchStep(d.Runner, d.Locator, d.FS, d.Repo, opts.Repo),
		runtime.NewVenvStep(d.Runner, d.Locator, d.FS, opts.PythonVersion),
		runtime.NewDepsStep(d.Runner, d.FS),
	)

	if opts.WithVirtualAudio {
		plan.Add(virtualaudio.NewStep(d.Runner, d.Locator, d.FS))
	}

	plan.Add(
		launcher.NewScriptStep(d.FS),
		launcher.NewPrefsStep(d.FS),
	)

	return plan
}
