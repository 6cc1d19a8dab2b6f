package install

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// Sequencer drives an installation plan: it iterates the steps in fixed
// order, probes each step's capability, delegates to the step's action,
// classifies the outcome and decides whether to proceed or abort.
type Sequencer struct {
	reporter Reporter
}

// NewSequencer creates a Sequencer reporting to the given Reporter.
func NewSequencer(reporter Reporter) *Sequencer {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Sequencer{reporter: reporter}
}

// Run executes the plan against the run context.
//
// A fatal outcome stops the run immediately: no later step ever executes
// after a fatal failure, to avoid compounding a broken environment. Warn
// outcomes are recorded and the run continues. No rollback is attempted;
// every step is idempotent, so the remedy for a partial run is re-running.
func (s *Sequencer) Run(rc *RunContext, plan *Plan) Summary {
	summary := Summary{
		RunID:       rc.RunID(),
		InstallPath: rc.InstallPath(),
		Outcomes:    make([]Outcome, 0, plan.Len()),
	}

	s.reporter.RunStarted(rc.RunID(), rc.Platform(), plan.Len())

	for _, step := range plan.Steps() {
		// Cancellation is honored between steps only; a running action
		// always completes on its own terms.
		select {
		case <-rc.Context().Done():
			summary.Aborted = true
			summary.Cause = rc.Context().Err()
			summary.Warnings = rc.Warnings()
			s.reporter.RunFinished(summary)
			return summary
		default:
		}

		outcome := s.executeStep(rc, step)
		summary.Outcomes = append(summary.Outcomes, outcome)
		s.reporter.StepFinished(outcome)

		switch outcome.Kind() {
		case OutcomeWarned:
			rc.AddWarning(step.ID(), outcome.Reason())
		case OutcomeFailed:
			summary.Aborted = true
			summary.Cause = fmt.Errorf("step %s failed: %w", step.ID(), outcome.Err())
			summary.Warnings = rc.Warnings()
			s.reporter.RunFinished(summary)
			return summary
		case OutcomeSuccess, OutcomeSkipped:
		}
	}

	summary.Warnings = rc.Warnings()
	s.reporter.RunFinished(summary)
	return summary
}

// executeStep runs one step: applicability predicate, capability probe,
// then the external action, classified by the step's failure policy.
func (s *Sequencer) executeStep(rc *RunContext, step Step) Outcome {
	log := rc.Logger().With(ports.F("step", step.ID().String()))

	if !step.AppliesTo(rc.Platform()) {
		log.Debug(rc.Context(), "step not applicable", ports.F("platform", rc.Platform().String()))
		return Skipped(step.ID(), "not applicable on "+string(rc.Platform().OS()))
	}

	// Always re-probe before acting. This short-circuit is what makes
	// re-running the whole pipeline after a partial failure safe.
	status, detail, err := step.Check(rc)
	if err != nil {
		log.Warn(rc.Context(), "capability probe failed, applying anyway", ports.F("error", err.Error()))
		status = StatusUnknown
	}
	if status == StatusSatisfied {
		log.Info(rc.Context(), "already satisfied", ports.F("detail", detail))
		return Skipped(step.ID(), "already satisfied")
	}

	s.reporter.StepStarted(step.ID(), step.Description())

	start := time.Now()
	applyErr := step.Apply(rc)
	duration := time.Since(start)

	if applyErr == nil {
		log.Info(rc.Context(), "step applied", ports.F("duration", duration.String()))
		return Success(step.ID()).WithDuration(duration)
	}

	if step.Policy() == PolicyWarn {
		log.Warn(rc.Context(), "optional step failed, continuing", ports.F("error", applyErr.Error()))
		return Warned(step.ID(), fmt.Sprintf("%s: %v", step.Description(), applyErr), applyErr).WithDuration(duration)
	}

	log.Error(rc.Context(), "fatal step failed", ports.F("error", applyErr.Error()))
	return Failed(step.ID(), fmt.Sprintf("%s: %v", step.Description(), applyErr), applyErr).WithDuration(duration)
}
