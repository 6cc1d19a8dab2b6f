// Package github provides the GitHub API adapter for credential
// validation and archive download.
package github

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/stagehand/internal/ports"
)

const (
	defaultBaseURL = "https://api.github.com"
	requestTimeout = 60 * time.Second
)

// Client implements ports.RepoService against the GitHub REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a GitHub API client.
func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint
// (used by tests and GitHub Enterprise installs).
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// ValidateToken performs the single identity round-trip of the credential
// liveness check.
func (c *Client) ValidateToken(ctx context.Context, token string) (ports.RepoIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return ports.RepoIdentity{}, fmt.Errorf("building identity request: %w", err)
	}
	c.decorate(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.RepoIdentity{}, fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.RepoIdentity{}, &ports.StatusError{StatusCode: resp.StatusCode}
	}

	var body struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.RepoIdentity{}, fmt.Errorf("decoding identity response: %w", err)
	}

	return ports.RepoIdentity{Login: body.Login}, nil
}

// DownloadArchive fetches the repository tarball at ref and unpacks it
// into destDir, stripping the top-level directory GitHub adds.
func (c *Client) DownloadArchive(ctx context.Context, token, owner, repo, ref, destDir string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/tarball/%s", c.baseURL, owner, repo, ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building archive request: %w", err)
	}
	c.decorate(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("archive request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ports.StatusError{StatusCode: resp.StatusCode}
	}

	if err := unpackTarball(resp.Body, destDir); err != nil {
		return "", fmt.Errorf("unpacking archive: %w", err)
	}
	return destDir, nil
}

func (c *Client) decorate(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}

// unpackTarball extracts a gzipped tarball into destDir. The first path
// element of every entry (the owner-repo-sha prefix) is stripped.
func unpackTarball(r io.Reader, destDir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("opening gzip stream: %w", err)
	}
	defer gz.Close() //nolint:errcheck

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		rel := stripPrefix(hdr.Name)
		if rel == "" {
			continue
		}

		target := filepath.Join(destDir, filepath.FromSlash(rel))
		// Reject entries escaping the destination.
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes destination", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := writeEntry(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		default:
			// Symlinks and special files are not expected in source
			// archives; skip rather than fail.
		}
	}
}

func stripPrefix(name string) string {
	parts := strings.SplitN(name, "/", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close() //nolint:errcheck,gosec
		return err
	}
	return f.Close()
}

// Ensure Client implements ports.RepoService.
var _ ports.RepoService = (*Client)(nil)
