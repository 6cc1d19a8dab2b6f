package install

import (
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
)

// Summary is the complete record of one run.
type Summary struct {
	RunID       string
	InstallPath string
	Outcomes    []Outcome
	Warnings    []Warning
	Aborted     bool
	Cause       error // non-nil when Aborted
}

// ExitCode maps the run result to a process exit code.
func (s Summary) ExitCode() int {
	if s.Aborted {
		return 1
	}
	return 0
}

// Reporter receives structured progress events. The pipeline core never
// formats text; rendering lives behind this interface.
type Reporter interface {
	// RunStarted is emitted once, before the first step.
	RunStarted(runID string, plat *platform.Platform, totalSteps int)

	// StepStarted is emitted before a step's action is invoked.
	// Skipped steps (inapplicable or already satisfied) do not emit it.
	StepStarted(id StepID, description string)

	// StepFinished is emitted with the classified outcome of every step,
	// including skipped ones.
	StepFinished(o Outcome)

	// RunFinished is emitted once with the complete run record.
	RunFinished(s Summary)
}

// NopReporter discards all events.
type NopReporter struct{}

// RunStarted implements Reporter.
func (NopReporter) RunStarted(string, *platform.Platform, int) {}

// StepStarted implements Reporter.
func (NopReporter) StepStarted(StepID, string) {}

// StepFinished implements Reporter.
func (NopReporter) StepFinished(Outcome) {}

// RunFinished implements Reporter.
func (NopReporter) RunFinished(Summary) {}

// Ensure NopReporter implements Reporter.
var _ Reporter = NopReporter{}
