package github

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/stagehand/internal/ports"
)

func TestValidateToken_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer ghp_token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"octocat"}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	identity, err := client.ValidateToken(context.Background(), "ghp_token")

	require.NoError(t, err)
	assert.Equal(t, "octocat", identity.Login)
}

func TestValidateToken_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	_, err := client.ValidateToken(context.Background(), "bad-token")

	var statusErr *ports.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.True(t, statusErr.Unauthorized())
}

func tarballWith(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestDownloadArchive_UnpacksAndStripsPrefix(t *testing.T) {
	archive := tarballWith(t, map[string]string{
		"acme-scribe-abc123/app.py":           "print('hi')",
		"acme-scribe-abc123/pkg/__init__.py":  "",
		"acme-scribe-abc123/requirements.txt": "openai-whisper\n",
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/scribe/tarball/main", r.URL.Path)
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	dest := t.TempDir()
	client := NewClientWithBaseURL(srv.URL)
	got, err := client.DownloadArchive(context.Background(), "ghp_token", "acme", "scribe", "main", dest)

	require.NoError(t, err)
	assert.Equal(t, dest, got)

	data, err := os.ReadFile(filepath.Join(dest, "app.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('hi')", string(data))

	_, err = os.Stat(filepath.Join(dest, "requirements.txt"))
	assert.NoError(t, err)
}

func TestDownloadArchive_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	_, err := client.DownloadArchive(context.Background(), "ghp_token", "acme", "scribe", "main", t.TempDir())

	var statusErr *ports.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestDownloadArchive_RejectsEscapingEntries(t *testing.T) {
	archive := tarballWith(t, map[string]string{
		"prefix/../../evil.txt": "nope",
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL)
	_, err := client.DownloadArchive(context.Background(), "ghp_token", "acme", "scribe", "main", t.TempDir())
	require.Error(t, err)
}
