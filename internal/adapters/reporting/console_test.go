package reporting

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/stagehand/internal/domain/audio"
	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
)

func stepID(t *testing.T, s string) install.StepID {
	t.Helper()
	id, err := install.NewStepID(s)
	require.NoError(t, err)
	return id
}

func TestStepFinished_RendersEveryOutcomeKind(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	r.StepFinished(install.Success(stepID(t, "runtime:python")).WithDuration(1200 * time.Millisecond))
	r.StepFinished(install.Skipped(stepID(t, "pkgmgr:ensure"), "already satisfied"))
	r.StepFinished(install.Warned(stepID(t, "wsl:enable"), "dism failed", errors.New("dism failed")))
	r.StepFinished(install.Failed(stepID(t, "source:fetch"), "clone failed", errors.New("clone failed")))

	out := buf.String()
	assert.Contains(t, out, "runtime:python")
	assert.Contains(t, out, "1.2s")
	assert.Contains(t, out, "already satisfied")
	assert.Contains(t, out, "dism failed")
	assert.Contains(t, out, "clone failed")
}

func TestRunFinished_AbortedShowsCauseAndWarnings(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	r.RunFinished(install.Summary{
		RunID:   "run-1",
		Aborted: true,
		Cause:   errors.New("step source:fetch failed"),
		Warnings: []install.Warning{
			{StepID: stepID(t, "wsl:enable"), Message: "dism failed"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "aborted")
	assert.Contains(t, out, "source:fetch")
	assert.Contains(t, out, "1 warning(s)")
	assert.NotContains(t, out, "installation complete")
}

func TestRunFinished_SuccessDefersToFinalSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	r.RunFinished(install.Summary{RunID: "run-2", InstallPath: "/home/u/scribe"})
	assert.Empty(t, buf.String(), "the closing summary is rendered after the audio phase")
}

func TestFinalSummary_ShowsPathRunIDAndNextSteps(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	r.FinalSummary(install.Summary{
		RunID:       "run-2",
		InstallPath: "/home/u/scribe",
		Warnings: []install.Warning{
			{StepID: stepID(t, "virtualaudio:cable"), Message: "install failed"},
		},
	}, "/home/u/scribe/scribe.sh")

	out := buf.String()
	assert.Contains(t, out, "installation complete")
	assert.Contains(t, out, "install path: /home/u/scribe")
	assert.Contains(t, out, "run-2")
	assert.Contains(t, out, "1 warning(s)")
	assert.Contains(t, out, "next steps")
	assert.Contains(t, out, "run /home/u/scribe/scribe.sh")
}

func TestObserver_StopsWithStep(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	r.StepStarted(stepID(t, "runtime:python"), "install Python")
	r.StepFinished(install.Success(stepID(t, "runtime:python")))

	// After StepFinished the observer channels are cleared; a second stop
	// must be a no-op.
	r.RunFinished(install.Summary{RunID: "run-3", InstallPath: "/tmp/x"})
	assert.Nil(t, r.observerStop)
}

func TestAudioReport_RemediationWhenNoUsableDevice(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	plat := platform.New(platform.OSDarwin, "arm64")
	r.AudioReport(audio.Report{
		FinalState:  audio.StateVerified,
		Remediation: audio.RemediationInstructions(plat),
	})

	out := buf.String()
	assert.Contains(t, out, "no usable input device")
	assert.True(t, strings.Contains(out, "1."), "remediation steps are numbered")
}

func TestAudioReport_ListsUsableDevices(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	r.AudioReport(audio.Report{
		FinalState: audio.StateVerified,
		Usable: []audio.Device{
			{Name: "MacBook Pro Microphone", Kind: audio.KindMicrophone, Enabled: true},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "MacBook Pro Microphone")
	assert.NotContains(t, out, "no usable input device")
}
