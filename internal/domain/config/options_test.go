package config

import (
	"errors"
	"os"
	"testing"

	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
)

type fakeFS struct {
	files map[string][]byte
}

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (f *fakeFS) WriteFile(path string, data []byte, _ os.FileMode) error {
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[path] = data
	return nil
}

func (f *fakeFS) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeFS) IsDir(_ string) bool { return false }

func (f *fakeFS) ListDir(_ string) ([]string, error) { return nil, nil }

func (f *fakeFS) MkdirAll(_ string, _ os.FileMode) error { return nil }

func (f *fakeFS) RemoveAll(path string) error {
	delete(f.files, path)
	return nil
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	plat := platform.New(platform.OSDarwin, "arm64")
	opts, err := Load(&fakeFS{}, plat, "", false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if opts.PythonVersion != "3.11" {
		t.Errorf("PythonVersion = %q, want default 3.11", opts.PythonVersion)
	}
	if opts.Repo.Owner != "felixgeelhaar" || opts.Repo.Name != "scribe" || opts.Repo.Ref != "main" {
		t.Errorf("Repo = %+v, want default repo ref", opts.Repo)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	plat := platform.New(platform.OSDarwin, "arm64")
	_, err := Load(&fakeFS{}, plat, "custom.yaml", true)

	var userErr *UserError
	if !errors.As(err, &userErr) {
		t.Fatalf("Load() error = %v, want *UserError", err)
	}
	if userErr.Code != ErrCodeConfigNotFound {
		t.Errorf("Code = %q, want %q", userErr.Code, ErrCodeConfigNotFound)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	fs := &fakeFS{files: map[string][]byte{
		"stagehand.yaml": []byte("install_path: /opt/scribe\npython_version: \"3.12\"\nrepo:\n  owner: acme\n  name: scribe-fork\n  ref: v2\nwith_virtual_audio: true\n"),
	}}
	plat := platform.New(platform.OSDarwin, "arm64")

	opts, err := Load(fs, plat, "", false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if opts.InstallPath != "/opt/scribe" {
		t.Errorf("InstallPath = %q, want /opt/scribe", opts.InstallPath)
	}
	if opts.PythonVersion != "3.12" {
		t.Errorf("PythonVersion = %q, want 3.12", opts.PythonVersion)
	}
	if opts.Repo.String() != "acme/scribe-fork" {
		t.Errorf("Repo = %s, want acme/scribe-fork", opts.Repo)
	}
	if !opts.WithVirtualAudio {
		t.Error("WithVirtualAudio should be true")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	fs := &fakeFS{files: map[string][]byte{
		"stagehand.yaml": []byte("install_path: [unterminated"),
	}}
	plat := platform.New(platform.OSDarwin, "arm64")

	_, err := Load(fs, plat, "", false)
	var userErr *UserError
	if !errors.As(err, &userErr) {
		t.Fatalf("Load() error = %v, want *UserError", err)
	}
	if userErr.Code != ErrCodeConfigParse {
		t.Errorf("Code = %q, want %q", userErr.Code, ErrCodeConfigParse)
	}
}

func TestUserError_FormatAndIs(t *testing.T) {
	err := &UserError{
		Code:       ErrCodeInstallDirExists,
		Message:    "install directory already exists",
		Context:    "/opt/scribe",
		Suggestion: "re-run with --force to remove it",
	}

	if got := err.Error(); got != "install directory already exists (at /opt/scribe)" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, &UserError{Code: ErrCodeInstallDirExists}) {
		t.Error("errors.Is must match on code")
	}
	formatted := err.Format()
	if formatted == "" || formatted == err.Error() {
		t.Error("Format() should include code and suggestion")
	}
}
