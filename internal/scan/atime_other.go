//go:build !linux && !darwin && !windows

package scan

import (
	"io/fs"
	"time"
)

// Without a known stat layout the modification time is the best guess
func accessTime(fi fs.FileInfo) time.Time {
	return fi.ModTime()
}
