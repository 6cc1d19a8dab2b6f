// Package platform provides platform detection for cross-platform installs.
package platform

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// OS represents the operating system type.
type OS string

const (
	// OSDarwin is macOS.
	OSDarwin OS = "darwin"
	// OSWindows is Windows.
	OSWindows OS = "windows"
	// OSLinux is Linux. Detected but not a supported install target.
	OSLinux OS = "linux"
	// OSUnknown is an unsupported OS.
	OSUnknown OS = "unknown"
)

// Platform contains detected facts about the target machine.
// The sequencer records these in the run context; steps use them for
// applicability predicates and precondition checks.
type Platform struct {
	os        OS
	arch      string
	osVersion string
	elevated  bool
	freeBytes uint64
}

var (
	detected     *Platform
	detectOnce   sync.Once
	detectedErr  error
	testPlatform *Platform // For testing
)

// Detect returns the current platform facts.
// Results are cached after the first call.
func Detect() (*Platform, error) {
	if testPlatform != nil {
		return testPlatform, nil
	}

	detectOnce.Do(func() {
		detected, detectedErr = detect()
	})
	return detected, detectedErr
}

// SetTestPlatform sets a mock platform for testing.
// Pass nil to reset to actual detection.
func SetTestPlatform(p *Platform) {
	testPlatform = p
}

//nolint:unparam // error return kept for future expansion
func detect() (*Platform, error) {
	p := &Platform{
		arch: runtime.GOARCH,
	}

	switch runtime.GOOS {
	case "darwin":
		p.os = OSDarwin
	case "windows":
		p.os = OSWindows
	case "linux":
		p.os = OSLinux
	default:
		p.os = OSUnknown
	}

	p.osVersion = detectOSVersion(p.os)
	p.elevated = isElevated()
	p.freeBytes = freeDiskBytes(installVolume(p.os))

	return p, nil
}

// detectOSVersion queries the OS for its release version.
// Best effort; an empty string means the version could not be read.
func detectOSVersion(osType OS) string {
	switch osType {
	case OSDarwin:
		out, err := exec.Command("sw_vers", "-productVersion").Output()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	case OSWindows:
		out, err := exec.Command("cmd", "/c", "ver").Output()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	default:
		return ""
	}
}

// installVolume returns the volume whose free space matters for installs.
func installVolume(osType OS) string {
	if osType == OSWindows {
		if drive := os.Getenv("SystemDrive"); drive != "" {
			return drive + `\`
		}
		return `C:\`
	}
	return "/"
}

// OS returns the operating system.
func (p *Platform) OS() OS {
	return p.os
}

// Arch returns the architecture.
func (p *Platform) Arch() string {
	return p.arch
}

// OSVersion returns the detected OS release version (may be empty).
func (p *Platform) OSVersion() string {
	return p.osVersion
}

// Elevated returns true if the process has administrative privileges.
func (p *Platform) Elevated() bool {
	return p.elevated
}

// FreeBytes returns the free space on the install volume in bytes.
// Zero means the value could not be determined.
func (p *Platform) FreeBytes() uint64 {
	return p.freeBytes
}

// IsWindows returns true if running on Windows.
func (p *Platform) IsWindows() bool {
	return p.os == OSWindows
}

// IsMacOS returns true if running on macOS.
func (p *Platform) IsMacOS() bool {
	return p.os == OSDarwin
}

// Supported returns true if this platform has an installation plan.
func (p *Platform) Supported() bool {
	return p.os == OSWindows || p.os == OSDarwin
}

// HasCommand checks if a command is available in PATH.
func (p *Platform) HasCommand(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// String returns a human-readable description.
func (p *Platform) String() string {
	parts := []string{string(p.os), p.arch}
	if p.osVersion != "" {
		parts = append(parts, p.osVersion)
	}
	return strings.Join(parts, "/")
}

// New creates a Platform with specified values (for testing).
func New(os OS, arch string) *Platform {
	return &Platform{
		os:   os,
		arch: arch,
	}
}

// WithElevated returns a copy with the elevation flag set (for testing).
func (p *Platform) WithElevated(elevated bool) *Platform {
	c := *p
	c.elevated = elevated
	return &c
}

// WithFreeBytes returns a copy with the free-space fact set (for testing).
func (p *Platform) WithFreeBytes(n uint64) *Platform {
	c := *p
	c.freeBytes = n
	return &c
}
