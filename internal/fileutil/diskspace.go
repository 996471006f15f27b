package fileutil

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FreeSpace reports the bytes available to unprivileged writers on the
// filesystem containing path.
func FreeSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// EnsureFreeSpace returns an error when the filesystem containing path has
// fewer than required bytes available.
func EnsureFreeSpace(path string, required uint64) error {
	available, err := FreeSpace(path)
	if err != nil {
		return err
	}
	if available < required {
		return fmt.Errorf("insufficient space at %s: %d bytes available, %d required", path, available, required)
	}
	return nil
}
