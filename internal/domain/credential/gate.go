package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// EnvTokenVar supplies the credential when it is not passed explicitly.
const EnvTokenVar = "STAGEHAND_GITHUB_TOKEN"

// Gate errors.
var (
	// ErrNoCredential means no source could supply a secret.
	ErrNoCredential = errors.New("no credential: pass --token, set " + EnvTokenVar + ", or run interactively")
	// ErrDeclined means the operator refused an unrecognized token format.
	ErrDeclined = errors.New("credential declined by operator")
	// ErrUnauthorized means the remote rejected the credential.
	ErrUnauthorized = errors.New("credential rejected by remote")
)

const (
	livenessAttempts = 3
	livenessBackoff  = 2 * time.Second
)

// Gate obtains and validates the access credential for the source fetch.
//
// A bad credential discovered only during the multi-minute fetch step
// wastes more time than any other failure in the pipeline, so the gate
// always spends one validation round-trip up front and never lets an
// unvalidated credential through.
type Gate struct {
	prompter ports.Prompter
	repo     ports.RepoService
	logger   ports.Logger

	// Injection points for tests.
	lookupEnv func(string) (string, bool)
	backoff   time.Duration
}

// NewGate creates a credential gate.
func NewGate(prompter ports.Prompter, repo ports.RepoService, logger ports.Logger) *Gate {
	return &Gate{
		prompter:  prompter,
		repo:      repo,
		logger:    logger,
		lookupEnv: os.LookupEnv,
		backoff:   livenessBackoff,
	}
}

// Obtain resolves a secret (explicit parameter, then environment, then an
// interactive masked prompt), applies the advisory format check, and runs
// the mandatory liveness check. Every failure is fatal to the run.
func (g *Gate) Obtain(ctx context.Context, presupplied string) (*Credential, error) {
	secret, err := g.resolveSecret(ctx, presupplied)
	if err != nil {
		return nil, err
	}

	if !MatchesKnownFormat(secret) {
		g.logger.Warn(ctx, "token does not match any known format; the allowlist may be out of date")
		if g.prompter != nil && g.prompter.Interactive() {
			ok, confirmErr := g.prompter.Confirm("Token format is unrecognized. Use it anyway?")
			if confirmErr != nil {
				return nil, fmt.Errorf("confirming token format: %w", confirmErr)
			}
			if !ok {
				return nil, ErrDeclined
			}
		}
	}

	login, err := g.checkLiveness(ctx, secret)
	if err != nil {
		return nil, err
	}

	g.logger.Info(ctx, "credential validated", ports.F("login", login))
	return &Credential{secret: secret, login: login, validated: true}, nil
}

// resolveSecret walks the resolution order and returns the first secret.
func (g *Gate) resolveSecret(ctx context.Context, presupplied string) (string, error) {
	if s := strings.TrimSpace(presupplied); s != "" {
		g.logger.Debug(ctx, "credential supplied explicitly")
		return s, nil
	}

	if v, ok := g.lookupEnv(EnvTokenVar); ok {
		if s := strings.TrimSpace(v); s != "" {
			g.logger.Debug(ctx, "credential read from environment", ports.F("var", EnvTokenVar))
			return s, nil
		}
	}

	if g.prompter == nil || !g.prompter.Interactive() {
		return "", ErrNoCredential
	}

	// Re-prompt on empty input; an empty secret is never accepted.
	for {
		line, err := g.prompter.ReadSecret("GitHub token: ")
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		if s := strings.TrimSpace(line); s != "" {
			return s, nil
		}
	}
}

// checkLiveness performs the single validating round-trip. A definitive
// rejection is fatal immediately; transport failures are retried a fixed
// number of times with a fixed backoff before failing.
func (g *Gate) checkLiveness(ctx context.Context, secret string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= livenessAttempts; attempt++ {
		identity, err := g.repo.ValidateToken(ctx, secret)
		if err == nil {
			return identity.Login, nil
		}

		var statusErr *ports.StatusError
		if errors.As(err, &statusErr) {
			// The remote answered; retrying cannot change the verdict.
			return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}

		lastErr = err
		g.logger.Warn(ctx, "liveness check attempt failed",
			ports.F("attempt", attempt), ports.F("error", err.Error()))

		if attempt < livenessAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(g.backoff):
			}
		}
	}

	return "", fmt.Errorf("liveness check failed after %d attempts: %w", livenessAttempts, lastErr)
}
