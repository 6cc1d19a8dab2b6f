//go:build !windows

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// isElevated reports whether the process runs as root.
func isElevated() bool {
	return os.Geteuid() == 0
}

// freeDiskBytes returns the free space on the volume containing path.
func freeDiskBytes(path string) uint64 {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0
	}
	return st.Bavail * uint64(st.Bsize) //nolint:unconvert // Bavail is int64 on some platforms
}
