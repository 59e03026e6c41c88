package xdg

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/babarot/dormant/internal/drives"
)

// externalTrashDirs returns the per-volume trash directories of the
// current user that exist and look sane, checking $topdir/.Trash/$uid
// before $topdir/.Trash-$uid on every writable volume
func externalTrashDirs(home string) ([]*trashLocation, error) {
	list, err := drives.List()
	if err != nil {
		return nil, fmt.Errorf("failed to get mount points: %w", err)
	}

	uid := os.Getuid()
	var locs []*trashLocation
	for _, d := range list {
		if d.ReadOnly {
			continue
		}
		candidates := []string{
			filepath.Join(d.Path, ".Trash", fmt.Sprint(uid)),
			filepath.Join(d.Path, fmt.Sprintf(".Trash-%d", uid)),
		}
		for _, root := range candidates {
			if root == home || !isValidExternalTrash(root) {
				continue
			}
			slog.Debug("found external trash", "root", root, "mountpoint", d.Path)
			locs = append(locs, newTrashLocation(root, d.Path, false))
		}
	}
	return locs, nil
}

// isValidExternalTrash checks if a directory is usable as a per-volume trash
func isValidExternalTrash(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}

	if !info.IsDir() || info.Mode()&os.ModeSymlink != 0 {
		slog.Debug("not a real directory", "path", path)
		return false
	}

	// The shared $topdir/.Trash parent must carry the sticky bit
	if filepath.Base(filepath.Dir(path)) == ".Trash" {
		parent, err := os.Lstat(filepath.Dir(path))
		if err != nil || parent.Mode()&os.ModeSticky == 0 {
			slog.Debug("missing sticky bit", "path", filepath.Dir(path))
			return false
		}
	}

	for _, subdir := range []string{"files", "info"} {
		fi, err := os.Stat(filepath.Join(path, subdir))
		if err != nil || !fi.IsDir() {
			return false
		}
	}
	return true
}
