// Package credential implements the access-credential gate: resolution,
// advisory format validation and the mandatory liveness check.
package credential

import "regexp"

// Credential is an opaque secret plus its validated identity. It is
// acquired once per run, never persisted, and scrubbed after use.
type Credential struct {
	secret    string
	login     string
	validated bool
}

// Secret returns the raw secret ("" after scrubbing).
func (c *Credential) Secret() string {
	return c.secret
}

// Login returns the identity the remote validated this credential as.
func (c *Credential) Login() string {
	return c.login
}

// Validated reports whether the liveness check succeeded.
func (c *Credential) Validated() bool {
	return c.validated
}

// Scrub clears the secret. The identity survives for reporting.
func (c *Credential) Scrub() {
	c.secret = ""
}

// knownTokenPatterns matches the token formats the remote is known to
// issue. The allowlist is advisory only: it may legitimately lag behind
// the remote's own issuance formats, so a mismatch warns instead of
// rejecting.
var knownTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^ghp_[A-Za-z0-9]{36,}$`),
	regexp.MustCompile(`^github_pat_[A-Za-z0-9_]{22,}$`),
	regexp.MustCompile(`^gho_[A-Za-z0-9]{36,}$`),
	regexp.MustCompile(`^[0-9a-f]{40}$`),
}

// MatchesKnownFormat reports whether the secret looks like a token the
// remote issues.
func MatchesKnownFormat(secret string) bool {
	for _, p := range knownTokenPatterns {
		if p.MatchString(secret) {
			return true
		}
	}
	return false
}
