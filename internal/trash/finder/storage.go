// Package finder reads the macOS Finder trash, a plain directory in which
// every entry is one trashed item.
package finder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/babarot/dormant/internal/core/atomic"
	"github.com/babarot/dormant/internal/trash/core"
)

// Finder bookkeeping, not trashed items
var ignoredNames = []string{".DS_Store", ".localized"}

// Storage implements core.Store over ~/.Trash
type Storage struct {
	root   string
	config core.Config
}

// NewStorage opens the Finder trash. Listing it requires Full Disk Access
// for the calling terminal on recent macOS versions.
func NewStorage(cfg core.Config) (*Storage, error) {
	root := cfg.HomeTrashDir
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		root = filepath.Join(home, ".Trash")
	}

	fi, err := os.Stat(root)
	if err != nil || !fi.IsDir() {
		return nil, core.NewStorageError("init", root, core.ErrStorageNotReady)
	}

	slog.Debug("initialize finder storage", "root", root)
	return &Storage{root: root, config: cfg}, nil
}

func (s *Storage) Info() *core.StorageInfo {
	return &core.StorageInfo{
		Location:  core.LocationHome,
		Root:      s.root,
		Available: true,
		Type:      core.StorageTypeFinder,
	}
}

// List returns the entries of the trash directory in name order. Finder
// keeps no record of the original location, so OriginalPath is empty.
func (s *Storage) List() ([]*core.File, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, core.NewStorageError("list", s.root, err)
	}

	var files []*core.File
	for _, entry := range entries {
		if lo.Contains(ignoredNames, entry.Name()) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			slog.Debug("skipping inaccessible entry", "name", entry.Name(), "error", err)
			continue
		}
		file := &core.File{
			Name:      entry.Name(),
			TrashPath: filepath.Join(s.root, entry.Name()),
			Size:      fi.Size(),
			IsDir:     fi.IsDir(),
			FileMode:  fi.Mode(),
		}
		file.SetStorage(s)
		files = append(files, file)
	}
	return files, nil
}

func (s *Storage) Move(file *core.File, dst string, force bool) error {
	if filepath.Dir(file.TrashPath) != s.root {
		return core.NewStorageError("move", file.TrashPath, core.ErrNotOwned)
	}

	opts := atomic.MoveOptions{
		AllowCrossDev: s.config.AllowCrossDev,
		Force:         force,
	}
	if err := atomic.Move(file.TrashPath, dst, opts); err != nil {
		if atomic.IsSourceNotFound(err) {
			err = fmt.Errorf("%w: %w", core.ErrNotFound, err)
		}
		return core.NewStorageError("move", file.TrashPath, err)
	}
	return nil
}
