package pkgmgr

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/stagehand/internal/domain/install"
	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

type fakeFS struct {
	existing map[string]bool
}

func (f *fakeFS) ReadFile(string) ([]byte, error)           { return nil, os.ErrNotExist }
func (f *fakeFS) WriteFile(string, []byte, os.FileMode) error { return nil }
func (f *fakeFS) Exists(path string) bool                   { return f.existing[path] }
func (f *fakeFS) IsDir(string) bool                         { return false }
func (f *fakeFS) ListDir(string) ([]string, error)          { return nil, nil }
func (f *fakeFS) MkdirAll(string, os.FileMode) error        { return nil }
func (f *fakeFS) RemoveAll(string) error                    { return nil }

type fakeRunner struct {
	calls [][]string
}

func (r *fakeRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	r.calls = append(r.calls, append([]string{command}, args...))
	return ports.CommandResult{ExitCode: 0}, nil
}

type fakeLocator struct {
	known map[string]string
}

func (l *fakeLocator) LookPath(name string) (string, error) {
	if path, ok := l.known[name]; ok {
		return path, nil
	}
	return "", errors.New("not found")
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...ports.Field) {}
func (nopLogger) Info(context.Context, string, ...ports.Field)  {}
func (nopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (nopLogger) Error(context.Context, string, ...ports.Field) {}
func (nopLogger) With(...ports.Field) ports.Logger              { return nopLogger{} }
func (nopLogger) SetLevel(ports.Level)                          {}

func newRunContext(os platform.OS) *install.RunContext {
	plat := platform.New(os, "arm64")
	return install.NewRunContext(context.Background(), plat, nopLogger{}, "/home/u/scribe", false)
}

func TestResolve_BrewOnPath(t *testing.T) {
	locator := &fakeLocator{known: map[string]string{"brew": "/opt/homebrew/bin/brew"}}
	path, ok := Resolve(platform.New(platform.OSDarwin, "arm64"), locator, &fakeFS{})
	require.True(t, ok)
	assert.Equal(t, "/opt/homebrew/bin/brew", path)
}

func TestResolve_BrewFallbackLocation(t *testing.T) {
	fs := &fakeFS{existing: map[string]bool{"/usr/local/bin/brew": true}}
	path, ok := Resolve(platform.New(platform.OSDarwin, "arm64"), &fakeLocator{}, fs)
	require.True(t, ok)
	assert.Equal(t, "/usr/local/bin/brew", path)
}

func TestEnsureStep_CheckNeedsApplyWhenAbsent(t *testing.T) {
	step := NewEnsureStep(&fakeRunner{}, &fakeLocator{}, &fakeFS{})
	status, _, err := step.Check(newRunContext(platform.OSDarwin))
	require.NoError(t, err)
	assert.Equal(t, install.StatusNeedsApply, status)
}

func TestEnsureStep_ApplyRunsHomebrewInstaller(t *testing.T) {
	runner := &fakeRunner{}
	step := NewEnsureStep(runner, &fakeLocator{}, &fakeFS{})

	require.NoError(t, step.Apply(newRunContext(platform.OSDarwin)))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "/bin/bash", runner.calls[0][0])
	assert.Contains(t, strings.Join(runner.calls[0], " "), "Homebrew/install")
}

func TestEnsureStep_ApplyRunsChocolateyInstaller(t *testing.T) {
	runner := &fakeRunner{}
	step := NewEnsureStep(runner, &fakeLocator{}, &fakeFS{})

	require.NoError(t, step.Apply(newRunContext(platform.OSWindows)))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "powershell", runner.calls[0][0])
	assert.Contains(t, strings.Join(runner.calls[0], " "), "chocolatey.org/install.ps1")
}

func TestEnsureStep_IsFatal(t *testing.T) {
	step := NewEnsureStep(&fakeRunner{}, &fakeLocator{}, &fakeFS{})
	assert.Equal(t, install.PolicyFatal, step.Policy())
}
