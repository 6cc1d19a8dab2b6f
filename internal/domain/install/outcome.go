package install

import (
	"time"
)

// OutcomeKind tags the classified result of executing one step.
type OutcomeKind string

const (
	// OutcomeSuccess indicates the step applied its change.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeSkipped indicates the step did not run (already satisfied,
	// or not applicable on this platform).
	OutcomeSkipped OutcomeKind = "skipped"
	// OutcomeWarned indicates a warn-policy step failed; the run continues.
	OutcomeWarned OutcomeKind = "warned"
	// OutcomeFailed indicates a fatal-policy step failed; the run aborts.
	OutcomeFailed OutcomeKind = "failed"
)

// Outcome captures the classified result of one step.
type Outcome struct {
	stepID   StepID
	kind     OutcomeKind
	reason   string
	err      error
	duration time.Duration
}

// Success creates a success outcome.
func Success(id StepID) Outcome {
	return Outcome{stepID: id, kind: OutcomeSuccess}
}

// Skipped creates a skipped outcome with the reason the step did not run.
func Skipped(id StepID, reason string) Outcome {
	return Outcome{stepID: id, kind: OutcomeSkipped, reason: reason}
}

// Warned creates a warned outcome for a failed warn-policy step.
func Warned(id StepID, reason string, err error) Outcome {
	return Outcome{stepID: id, kind: OutcomeWarned, reason: reason, err: err}
}

// Failed creates a failed outcome for a failed fatal-policy step.
func Failed(id StepID, reason string, err error) Outcome {
	return Outcome{stepID: id, kind: OutcomeFailed, reason: reason, err: err}
}

// StepID returns the ID of the step this outcome belongs to.
func (o Outcome) StepID() StepID {
	return o.stepID
}

// Kind returns the outcome classification.
func (o Outcome) Kind() OutcomeKind {
	return o.kind
}

// Reason returns the human-readable reason (skip cause or failure message).
func (o Outcome) Reason() string {
	return o.reason
}

// Err returns the underlying error, if any.
func (o Outcome) Err() error {
	return o.err
}

// Duration returns how long the step took to execute.
func (o Outcome) Duration() time.Duration {
	return o.duration
}

// Fatal returns true if this outcome aborts the run.
func (o Outcome) Fatal() bool {
	return o.kind == OutcomeFailed
}

// WithDuration returns a copy with the duration set.
func (o Outcome) WithDuration(d time.Duration) Outcome {
	o.duration = d
	return o
}
