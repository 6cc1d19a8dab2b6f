package install

import (
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
)

// Step represents one unit of provisioning work with a declared failure
// policy. Steps are immutable once defined and identified by ID.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// Description returns a short human-readable label for reporting.
	Description() string

	// Policy returns the declared failure policy.
	Policy() FailurePolicy

	// AppliesTo reports whether the step runs on the given platform.
	AppliesTo(p *platform.Platform) bool

	// Check probes whether the capability this step provides is already
	// satisfied. It must be side-effect free; absence is a normal return,
	// never an error. The detail string carries probe context (e.g. a
	// resolved path or a directory listing) for reporting.
	Check(rc *RunContext) (Status, string, error)

	// Apply invokes the step's single external action.
	Apply(rc *RunContext) error
}
