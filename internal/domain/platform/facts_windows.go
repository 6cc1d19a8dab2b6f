//go:build windows

package platform

import (
	"golang.org/x/sys/windows"
)

// isElevated reports whether the process token carries admin privileges.
func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// freeDiskBytes returns the free space on the volume containing path.
func freeDiskBytes(path string) uint64 {
	var free, total, totalFree uint64
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0
	}
	if err := windows.GetDiskFreeSpaceEx(p, &free, &total, &totalFree); err != nil {
		return 0
	}
	return free
}
