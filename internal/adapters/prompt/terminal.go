// Package prompt provides interactive input adapters.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// Terminal reads operator input from the controlling terminal.
type Terminal struct {
	in  *os.File
	out io.Writer
}

// NewTerminal creates a prompter on stdin/stderr. Prompts go to stderr so
// they never mix with machine-readable output on stdout.
func NewTerminal() *Terminal {
	return &Terminal{
		in:  os.Stdin,
		out: os.Stderr,
	}
}

// Interactive reports whether stdin is a terminal a human can type into.
func (t *Terminal) Interactive() bool {
	return term.IsTerminal(int(t.in.Fd()))
}

// ReadSecret reads one line of masked input.
func (t *Terminal) ReadSecret(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	secret, err := term.ReadPassword(int(t.in.Fd()))
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("reading masked input: %w", err)
	}
	return string(secret), nil
}

// Confirm asks a yes/no question; anything but y/yes is a no.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(t.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// Ensure Terminal implements ports.Prompter.
var _ ports.Prompter = (*Terminal)(nil)
