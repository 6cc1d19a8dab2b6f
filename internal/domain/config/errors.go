// Package config holds run options, the optional config file loader and
// user-facing error types.
package config

import (
	"fmt"
	"strings"
)

// Error codes for categorization.
const (
	ErrCodeConfigNotFound      = "CONFIG_NOT_FOUND"
	ErrCodeConfigParse         = "CONFIG_PARSE"
	ErrCodePlatformUnsupported = "PLATFORM_UNSUPPORTED"
	ErrCodeInstallDirExists    = "INSTALL_DIR_EXISTS"
	ErrCodeCredentialInvalid   = "CREDENTIAL_INVALID"
	ErrCodeStepFailed          = "STEP_FAILED"
)

// UserError represents a user-friendly error with actionable suggestions.
// Every fatal path prints a stable cause message sufficient to re-run
// after manual remediation.
type UserError struct {
	Code       string // Error code for categorization
	Message    string // User-friendly error message
	Context    string // Path or other location context
	Suggestion string // Actionable suggestion to fix the error
	Underlying error  // Wrapped error for error chain
}

// Error returns the formatted error message.
func (e *UserError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, " (at %s)", e.Context)
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain support.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// Is supports errors.Is() for comparing error codes.
func (e *UserError) Is(target error) bool {
	if t, ok := target.(*UserError); ok {
		return e.Code == t.Code
	}
	return false
}

// Format returns a fully formatted error with all details.
func (e *UserError) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Context != "" {
		fmt.Fprintf(&b, "\n  Location: %s", e.Context)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n  Suggestion: %s", e.Suggestion)
	}
	return b.String()
}
