package xdg

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/babarot/dormant/internal/trash/core"
)

const (
	trashInfoHeader = "[Trash Info]"
	trashInfoExt    = ".trashinfo"
	timeFormat      = "2006-01-02T15:04:05"
)

// TrashInfo represents the contents of a .trashinfo file
type TrashInfo struct {
	// Path is the original path of the file, can be absolute or relative
	Path string

	// OriginalName is just the base name of the file
	OriginalName string

	// DeletionDate is when the file was moved to trash
	DeletionDate time.Time

	// MountRoot is the top directory of the volume holding this trash,
	// used to resolve relative paths
	MountRoot string
}

// NewInfo parses a .trashinfo document
func NewInfo(r io.Reader) (*TrashInfo, error) {
	scanner := bufio.NewScanner(r)
	info := &TrashInfo{}
	var headerFound bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			// Keys of other groups must not leak into ours
			headerFound = line == trashInfoHeader
			continue
		}
		if !headerFound {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Path":
			path, err := url.PathUnescape(value)
			if err != nil {
				return nil, core.NewStorageError("parse", "", fmt.Errorf("invalid Path encoding: %w", err))
			}
			info.Path = path
			info.OriginalName = filepath.Base(path)

		case "DeletionDate":
			date, err := time.ParseInLocation(timeFormat, value, time.Local)
			if err != nil {
				return nil, core.NewStorageError("parse", "", fmt.Errorf("invalid DeletionDate format: %w", err))
			}
			info.DeletionDate = date
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading info file: %w", err)
	}

	if info.Path == "" {
		return nil, core.NewStorageError("parse", "", fmt.Errorf("missing Path field"))
	}
	if info.DeletionDate.IsZero() {
		return nil, core.NewStorageError("parse", "", fmt.Errorf("missing DeletionDate field"))
	}

	return info, nil
}

// AbsolutePath returns the original location of the file. Relative paths
// are resolved against the mount root.
func (i *TrashInfo) AbsolutePath() string {
	if filepath.IsAbs(i.Path) || i.MountRoot == "" {
		return i.Path
	}
	abs := filepath.Join(i.MountRoot, i.Path)
	slog.Debug("resolved relative path", "relative", i.Path, "mountRoot", i.MountRoot, "absolute", abs)
	return abs
}

// loadTrashInfo loads and parses a .trashinfo file
func loadTrashInfo(path string) (*TrashInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open info file: %w", err)
	}
	defer f.Close()

	return NewInfo(f)
}
