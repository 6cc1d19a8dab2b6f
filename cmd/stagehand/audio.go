package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/stagehand/internal/app"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Check and configure audio capture devices",
	Long: `Audio runs the device configuration check on its own: detect virtual
cables, stereo-mix loopbacks and microphones, enable what can be
enabled, and verify at least one usable input exists.

The command reports remediation instructions when no usable device is
found; it never exits non-zero for device absence.`,
	RunE: runAudio,
}

func init() {
	rootCmd.AddCommand(audioCmd)
}

func runAudio(_ *cobra.Command, _ []string) error {
	plat, err := platform.Detect()
	if err != nil {
		return err
	}

	installer := app.NewInstaller(buildDeps(plat))
	installer.RunAudio(context.Background(), plat)
	return nil
}
