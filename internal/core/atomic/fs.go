//go:build !windows

package atomic

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// isSamePartition reports whether src and the parent directory of dst
// share a device number.
func isSamePartition(src, dst string) (bool, error) {
	srcInfo, err := os.Lstat(src)
	if err != nil {
		return false, fmt.Errorf("stat source: %w", err)
	}

	dstInfo, err := os.Stat(filepath.Dir(dst))
	if err != nil {
		return false, fmt.Errorf("stat destination parent: %w", err)
	}

	srcSys, ok := srcInfo.Sys().(*syscall.Stat_t)
	if !ok {
		return false, errors.New("no device info for source")
	}
	dstSys, ok := dstInfo.Sys().(*syscall.Stat_t)
	if !ok {
		return false, errors.New("no device info for destination")
	}

	return srcSys.Dev == dstSys.Dev, nil
}
