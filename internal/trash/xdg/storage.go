// Package xdg reads the freedesktop.org trash: the home trash plus the
// per-volume $topdir/.Trash directories.
package xdg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/babarot/dormant/internal/core/atomic"
	"github.com/babarot/dormant/internal/trash/core"
)

// Storage implements core.Store for the XDG trash specification
type Storage struct {
	// Home trash location (~/.local/share/Trash)
	homeTrash *trashLocation

	// External trash locations ($topdir/.Trash-$uid)
	externalTrashes []*trashLocation

	config core.Config
}

// trashLocation represents a single trash directory
type trashLocation struct {
	// Root directory (e.g., ~/.local/share/Trash or /media/disk/.Trash-1000)
	root string

	// Files directory (root/files)
	filesDir string

	// Info directory (root/info)
	infoDir string

	// topDir is the volume root relative paths in .trashinfo are based on
	topDir string

	isHome bool
}

func newTrashLocation(root, topDir string, isHome bool) *trashLocation {
	return &trashLocation{
		root:     root,
		filesDir: filepath.Join(root, "files"),
		infoDir:  filepath.Join(root, "info"),
		topDir:   topDir,
		isHome:   isHome,
	}
}

// NewStorage creates a new XDG-compliant trash storage
func NewStorage(cfg core.Config) (*Storage, error) {
	slog.Debug("initialize xdg storage")

	s := &Storage{config: cfg}

	home, err := s.initHomeTrash()
	if err != nil {
		return nil, core.NewStorageError("init", "", fmt.Errorf("%w: %v", core.ErrStorageNotReady, err))
	}
	s.homeTrash = home

	if !cfg.SkipExternal {
		ext, err := externalTrashDirs(home.root)
		if err != nil {
			// The home trash alone is still usable
			slog.Warn("failed to scan external trashes", "error", err)
		}
		s.externalTrashes = ext
	}

	return s, nil
}

func (s *Storage) Info() *core.StorageInfo {
	return &core.StorageInfo{
		Location:  core.LocationHome,
		Root:      s.homeTrash.root,
		Available: true,
		Type:      core.StorageTypeXDG,
	}
}

// List returns the home trash items followed by those of every external
// trash, each in files/ directory order. Entries without a readable
// .trashinfo are skipped.
func (s *Storage) List() ([]*core.File, error) {
	files, err := s.listLocation(s.homeTrash)
	if err != nil {
		return nil, core.NewStorageError("list", s.homeTrash.root, err)
	}

	for _, loc := range s.externalTrashes {
		extFiles, err := s.listLocation(loc)
		if err != nil {
			slog.Warn("failed to list external trash", "root", loc.root, "error", err)
			continue
		}
		files = append(files, extFiles...)
	}

	return files, nil
}

// Move relocates file to dst and removes its .trashinfo
func (s *Storage) Move(file *core.File, dst string, force bool) error {
	loc := s.locationOf(file)
	if loc == nil {
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

	infoPath := filepath.Join(loc.infoDir, filepath.Base(file.TrashPath)+trashInfoExt)
	if err := os.Remove(infoPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		// The file is already out of the trash
		slog.Warn("failed to remove trash info", "path", infoPath, "error", err)
	}

	return nil
}

func (s *Storage) locationOf(file *core.File) *trashLocation {
	for _, loc := range append([]*trashLocation{s.homeTrash}, s.externalTrashes...) {
		if filepath.Dir(file.TrashPath) == loc.filesDir {
			return loc
		}
	}
	return nil
}

// Locations describes the home trash followed by every external trash
func (s *Storage) Locations() []*core.StorageInfo {
	infos := []*core.StorageInfo{s.Info()}
	for _, loc := range s.externalTrashes {
		_, err := os.Stat(loc.filesDir)
		infos = append(infos, &core.StorageInfo{
			Location:  core.LocationExternal,
			Root:      loc.root,
			Available: err == nil,
			Type:      core.StorageTypeXDG,
		})
	}
	return infos
}

func (s *Storage) initHomeTrash() (*trashLocation, error) {
	root := s.config.HomeTrashDir
	if root == "" {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
		root = filepath.Join(dataDir, "Trash")
	}
	slog.Debug("initHomeTrash", "root", root)

	loc := newTrashLocation(root, "", true)
	for _, dir := range []string{loc.filesDir, loc.infoDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return loc, nil
}

func (s *Storage) listLocation(loc *trashLocation) ([]*core.File, error) {
	entries, err := os.ReadDir(loc.filesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read files directory: %w", err)
	}

	var files []*core.File
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), trashInfoExt) {
			continue
		}

		info, err := loadTrashInfo(filepath.Join(loc.infoDir, entry.Name()+trashInfoExt))
		if err != nil {
			slog.Debug("skipping entry without valid info", "name", entry.Name(), "error", err)
			continue
		}
		info.MountRoot = loc.topDir

		filePath := filepath.Join(loc.filesDir, entry.Name())
		fi, err := os.Lstat(filePath)
		if err != nil {
			slog.Debug("skipping inaccessible entry", "path", filePath, "error", err)
			continue
		}

		file := &core.File{
			Name:         info.OriginalName,
			OriginalPath: info.AbsolutePath(),
			TrashPath:    filePath,
			DeletedAt:    info.DeletionDate,
			Size:         fi.Size(),
			IsDir:        fi.IsDir(),
			FileMode:     fi.Mode(),
		}
		file.SetStorage(s)
		files = append(files, file)
	}

	return files, nil
}
