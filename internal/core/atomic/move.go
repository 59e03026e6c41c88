package atomic

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
)

// MoveOptions specifies options for move operations
type MoveOptions struct {
	AllowCrossDev bool // Allow copy-and-delete when rename(2) is not possible
	Force         bool // Replace the destination if it already exists
}

// Move moves src to dst. It tries rename(2) first and falls back to
// copy-and-delete across devices when AllowCrossDev is set. With Force an
// existing dst is set aside and only discarded once the move succeeded.
func Move(src, dst string, opts MoveOptions) error {
	if err := validatePaths(src, dst); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return NewMoveError("create_parent", src, dst, err)
	}

	var backup string
	if _, err := os.Lstat(dst); err == nil {
		if !opts.Force {
			return NewMoveError("check_destination", src, dst, ErrDestinationExists)
		}
		b, err := setAside(dst)
		if err != nil {
			return NewMoveError("backup_destination", src, dst, err)
		}
		backup = b
	}

	if err := move(src, dst, opts); err != nil {
		if backup != "" {
			if rerr := os.Rename(backup, dst); rerr != nil {
				slog.Error("failed to put back replaced destination", "backup", backup, "dst", dst, "error", rerr)
			}
		}
		return err
	}

	if backup != "" {
		if err := os.RemoveAll(backup); err != nil {
			slog.Warn("failed to remove replaced destination", "backup", backup, "error", err)
		}
	}
	return nil
}

func move(src, dst string, opts MoveOptions) error {
	if sameDevice, _ := isSamePartition(src, dst); sameDevice {
		err := renameNoReplace(src, dst)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrDestinationExists), !opts.AllowCrossDev:
			// A copy would replace whatever took the name, so only other
			// rename failures may fall back
			return NewMoveError("rename", src, dst, err)
		}
	} else if !opts.AllowCrossDev {
		return NewMoveError("rename", src, dst, ErrCrossDeviceMove)
	}

	slog.Debug("falling back to copy and delete", "from", src, "to", dst)
	return copyAndDelete(src, dst)
}

// setAside renames path to a unique sibling so that it can be restored
func setAside(path string) (string, error) {
	tm, err := NewTempManager(filepath.Dir(path))
	if err != nil {
		return "", err
	}
	tmp := tm.Name("." + filepath.Base(path))
	if err := os.Rename(path, tmp); err != nil {
		return "", err
	}
	return tmp, nil
}

// copyAndDelete copies a file or directory and then deletes the original
func copyAndDelete(src, dst string) error {
	opts := cp.Options{
		OnSymlink: func(src string) cp.SymlinkAction {
			return cp.Shallow // keep links as links
		},
		PreserveTimes: true,
		PreserveOwner: os.Geteuid() == 0,
		Sync:          true,
	}

	if err := cp.Copy(src, dst, opts); err != nil {
		return NewMoveError("copy", src, dst, err)
	}

	if err := os.RemoveAll(src); err != nil {
		if rmErr := os.RemoveAll(dst); rmErr != nil {
			return NewMoveError("cleanup", src, dst,
				fmt.Errorf("failed to remove both source and destination: %v, %v", err, rmErr))
		}
		return NewMoveError("remove_source", src, dst, err)
	}

	return nil
}

// validatePaths performs basic path validation
func validatePaths(src, dst string) error {
	if src == "" || dst == "" {
		return ErrInvalidPath
	}

	if _, err := os.Lstat(src); err != nil {
		if os.IsNotExist(err) {
			return NewMoveError("stat_source", src, dst, ErrSourceNotFound)
		}
		return NewMoveError("stat_source", src, dst, err)
	}

	return nil
}
