package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stagehand/internal/adapters/command"
	"github.com/felixgeelhaar/stagehand/internal/adapters/devices"
	"github.com/felixgeelhaar/stagehand/internal/adapters/filesystem"
	"github.com/felixgeelhaar/stagehand/internal/adapters/github"
	"github.com/felixgeelhaar/stagehand/internal/adapters/logging"
	"github.com/felixgeelhaar/stagehand/internal/adapters/prompt"
	"github.com/felixgeelhaar/stagehand/internal/adapters/reporting"
	"github.com/felixgeelhaar/stagehand/internal/app"
	"github.com/felixgeelhaar/stagehand/internal/domain/config"
	"github.com/felixgeelhaar/stagehand/internal/domain/credential"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Provision this machine for the scribe app",
	Long: `Install runs the full provisioning pipeline:

1. Package manager (Chocolatey / Homebrew)
2. Python runtime, Windows system components
3. Authenticated source fetch
4. Virtual environment and dependencies
5. Launch artifacts and audio device configuration

The run is idempotent: already-satisfied steps are skipped, so the
command can be re-run after any failure.`,
	RunE: runInstall,
}

var (
	installConfigPath   string
	installPath         string
	installPython       string
	installToken        string
	installForce        bool
	installVirtualAudio bool
	installWSL          bool
	installAudioOnly    bool
)

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringVarP(&installConfigPath, "config", "c", "", "path to stagehand.yaml (default: ./stagehand.yaml if present)")
	installCmd.Flags().StringVar(&installPath, "path", "", "install directory (default: platform-specific)")
	installCmd.Flags().StringVar(&installPython, "python", "", "minimum Python version (default: 3.11)")
	installCmd.Flags().StringVar(&installToken, "token", "", "GitHub token (default: $"+credential.EnvTokenVar+" or interactive prompt)")
	installCmd.Flags().BoolVar(&installForce, "force", false, "replace an existing install directory")
	installCmd.Flags().BoolVar(&installVirtualAudio, "with-virtual-audio", false, "install a virtual loopback cable (VB-CABLE / BlackHole)")
	installCmd.Flags().BoolVar(&installWSL, "with-wsl", false, "enable Windows Subsystem for Linux (Windows only)")
	installCmd.Flags().BoolVar(&installAudioOnly, "audio-only", false, "skip the pipeline, run the audio device check only")
}

func runInstall(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	plat, err := platform.Detect()
	if err != nil {
		return err
	}

	fs := filesystem.New()
	opts, err := config.Load(fs, plat, installConfigPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	// Flags win over the config file.
	if installPath != "" {
		opts.InstallPath = ports.ExpandPath(installPath)
	}
	if installPython != "" {
		opts.PythonVersion = installPython
	}
	if cmd.Flags().Changed("with-virtual-audio") {
		opts.WithVirtualAudio = installVirtualAudio
	}
	if cmd.Flags().Changed("with-wsl") {
		opts.WithWSL = installWSL
	}
	opts.Overwrite = installForce
	opts.AudioOnly = installAudioOnly

	installer := app.NewInstaller(buildDeps(plat))

	code, err := installer.Run(ctx, plat, opts, installToken)
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.New("installation failed")
	}
	return nil
}

// buildDeps wires the production adapters.
func buildDeps(plat *platform.Platform) app.Deps {
	level := ports.LevelInfo
	if verbose {
		level = ports.LevelDebug
	}
	logger := logging.NewConsoleLogger(logging.WithOutput(os.Stderr), logging.WithLevel(level))
	runner := command.NewRealRunner()

	return app.Deps{
		Logger:    logger,
		Runner:    runner,
		Locator:   command.NewRealLocator(),
		FS:        filesystem.New(),
		Prompter:  prompt.NewTerminal(),
		Repo:      github.NewClient(),
		Registry:  devices.ForPlatform(plat, runner),
		Presenter: reporting.NewConsoleReporter(os.Stdout),
	}
}
