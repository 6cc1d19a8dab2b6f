package install

// FailurePolicy classifies how a step's failure affects the run.
//
// The fatal/warn boundary is the central design decision of the pipeline:
// a step is fatal only when its failure would make every subsequent step
// meaningless (runtime install, credential validation, source fetch).
// Steps whose failure merely degrades one optional feature carry PolicyWarn.
type FailurePolicy string

const (
	// PolicyFatal aborts the whole run when the step fails.
	PolicyFatal FailurePolicy = "fatal"
	// PolicyWarn records a warning and lets the run continue.
	PolicyWarn FailurePolicy = "warn"
)

// String returns the string representation of the policy.
func (p FailurePolicy) String() string {
	return string(p)
}

// Status is the result of probing a step's capability.
type Status string

const (
	// StatusSatisfied indicates the step's desired state is already met.
	StatusSatisfied Status = "satisfied"
	// StatusNeedsApply indicates the step needs to be applied.
	StatusNeedsApply Status = "needs-apply"
	// StatusUnknown indicates the state could not be determined.
	// The sequencer applies anyway; the step's own action must be idempotent.
	StatusUnknown Status = "unknown"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}
