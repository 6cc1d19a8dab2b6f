package ports

// Prompter collects interactive input from the operator.
//
// An unattended run has no prompter; callers must check Interactive before
// asking for input and treat a missing answer as a hard failure.
type Prompter interface {
	// Interactive reports whether a human can answer prompts on this run.
	Interactive() bool

	// ReadSecret reads a line of masked input (never echoed).
	ReadSecret(prompt string) (string, error)

	// Confirm asks a yes/no question and returns the answer.
	Confirm(prompt string) (bool, error)
}
