// Package probe holds shared capability-probe helpers for provider steps.
package probe

import (
	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// FindExecutable resolves a tool on PATH first, then at well-known install
// locations. The fallback matters after an interrupted earlier run: the
// installer may have placed the binary before its PATH entry took effect.
func FindExecutable(locator ports.CommandLocator, fs ports.FileSystem, name string, fallbacks ...string) (string, bool) {
	if path, err := locator.LookPath(name); err == nil {
		return path, true
	}
	for _, candidate := range fallbacks {
		if candidate == "" {
			continue
		}
		if fs.Exists(candidate) && !fs.IsDir(candidate) {
			return candidate, true
		}
	}
	return "", false
}
