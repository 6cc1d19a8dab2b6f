package ports

import (
	"os"
	"path/filepath"
	"strings"
)

// FileSystem provides the file system operations the installer needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	IsDir(path string) bool
	ListDir(path string) ([]string, error)
	MkdirAll(path string, perm os.FileMode) error
	RemoveAll(path string) error
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
