package install

import (
	"fmt"
)

// Plan is the ordered sequence of steps for one platform, constructed once
// at startup from static definitions plus runtime flags.
type Plan struct {
	steps []Step
}

// NewPlan creates an empty Plan.
func NewPlan() *Plan {
	return &Plan{steps: make([]Step, 0)}
}

// Add appends steps in execution order.
func (p *Plan) Add(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Steps returns the ordered steps.
func (p *Plan) Steps() []Step {
	return p.steps
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	return len(p.steps)
}

// Validate rejects malformed plans. The step order itself is fixed at
// construction and never reordered: later steps may assume all prior
// fatal-policy steps succeeded.
func (p *Plan) Validate() error {
	seen := make(map[string]struct{}, len(p.steps))
	for _, s := range p.steps {
		id := s.ID().String()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate step ID %q in plan", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
