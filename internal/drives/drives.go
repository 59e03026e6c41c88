// Package drives lists the volumes a scan or recovery can be pointed at.
package drives

import (
	"path/filepath"
	"strings"
)

// Drive is a selectable root
type Drive struct {
	// Path is the mount point or drive root (e.g. "/", "/media/usb", `C:\`)
	Path string

	// FSType is the filesystem type as reported by the OS
	FSType string

	// Source is the backing device, if known
	Source string

	// ReadOnly is set for volumes mounted read-only
	ReadOnly bool
}

// Skip file systems that can't hold user files
var skipFSTypes = map[string]bool{
	"autofs":      true,
	"binfmt_misc": true,
	"bpf":         true,
	"cgroup":      true,
	"cgroup2":     true,
	"configfs":    true,
	"debugfs":     true,
	"devfs":       true,
	"devpts":      true,
	"devtmpfs":    true,
	"efivarfs":    true,
	"fusectl":     true,
	"hugetlbfs":   true,
	"mqueue":      true,
	"nsfs":        true,
	"overlay":     true,
	"proc":        true,
	"pstore":      true,
	"securityfs":  true,
	"sysfs":       true,
	"tmpfs":       true,
	"tracefs":     true,
}

// MountPointOf returns the drive in list whose path is the longest prefix
// of path. The second return value is false when nothing matches.
func MountPointOf(list []Drive, path string) (Drive, bool) {
	var (
		best  Drive
		found bool
	)
	for _, d := range list {
		if !within(path, d.Path) {
			continue
		}
		if !found || len(d.Path) > len(best.Path) {
			best, found = d, true
		}
	}
	return best, found
}

func within(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}
