package ports

import (
	"context"
	"fmt"
)

// StatusError reports a definitive non-2xx response from the remote.
// Callers use it to tell a rejected request apart from a transport
// failure that may be worth retrying.
type StatusError struct {
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned status %d", e.StatusCode)
}

// Unauthorized returns true for authentication/authorization rejections.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// RepoIdentity is the identity associated with a validated token.
type RepoIdentity struct {
	Login string
}

// RepoService is the credential-gated fetch service for the application
// source. Token validation is a single round-trip against the identity
// endpoint; archive download is the fallback used when git is unavailable.
type RepoService interface {
	// ValidateToken performs exactly one identity round-trip.
	// A non-2xx response is returned as an error; the token is never
	// considered usable without a successful validation.
	ValidateToken(ctx context.Context, token string) (RepoIdentity, error)

	// DownloadArchive fetches the repository tarball at ref and unpacks it
	// into destDir. Returns the path of the unpacked source tree.
	DownloadArchive(ctx context.Context, token, owner, repo, ref, destDir string) (string, error)
}
