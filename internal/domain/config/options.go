package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/stagehand/internal/domain/platform"
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// DefaultFileName is the optional config file looked up next to the
// working directory when no --config flag is given.
const DefaultFileName = "stagehand.yaml"

// RepoRef names the remote repository holding the application source.
type RepoRef struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
	Ref   string `yaml:"ref"`
}

// String returns the owner/name form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// Options are the resolved parameters of one run. CLI flags override the
// config file, which overrides the defaults.
type Options struct {
	InstallPath      string  `yaml:"install_path"`
	PythonVersion    string  `yaml:"python_version"`
	Repo             RepoRef `yaml:"repo"`
	WithVirtualAudio bool    `yaml:"with_virtual_audio"`
	WithWSL          bool    `yaml:"with_wsl"`
	Overwrite        bool    `yaml:"-"`
	AudioOnly        bool    `yaml:"-"`
}

// Defaults returns the built-in options for the given platform.
func Defaults(plat *platform.Platform) Options {
	installPath := filepath.Join(homeDir(), "scribe")
	if plat != nil && plat.IsWindows() {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			installPath = filepath.Join(local, "Scribe")
		}
	}
	return Options{
		InstallPath:   installPath,
		PythonVersion: "3.11",
		Repo: RepoRef{
			Owner: "felixgeelhaar",
			Name:  "scribe",
			Ref:   "main",
		},
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Load merges the YAML config file at path over the defaults. An absent
// file at the default location is not an error; an explicitly named file
// must exist.
func Load(fs ports.FileSystem, plat *platform.Platform, path string, explicit bool) (Options, error) {
	opts := Defaults(plat)

	if path == "" {
		path = DefaultFileName
	}
	path = ports.ExpandPath(path)

	if !fs.Exists(path) {
		if explicit {
			return opts, &UserError{
				Code:       ErrCodeConfigNotFound,
				Message:    "config file not found",
				Context:    path,
				Suggestion: "check the --config path or omit the flag to use built-in defaults",
			}
		}
		return opts, nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return opts, &UserError{
			Code:       ErrCodeConfigParse,
			Message:    "config file could not be read",
			Context:    path,
			Underlying: err,
		}
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, &UserError{
			Code:       ErrCodeConfigParse,
			Message:    fmt.Sprintf("config file is not valid YAML: %v", err),
			Context:    path,
			Suggestion: "fix the YAML syntax or delete the file to use defaults",
			Underlying: err,
		}
	}

	opts.InstallPath = ports.ExpandPath(opts.InstallPath)
	return opts, nil
}
