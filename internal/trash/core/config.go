package core

import (
	"fmt"
	"path/filepath"
)

// Config holds the settings shared by every store
type Config struct {
	// Type selects the store implementation
	Type StorageType

	// HomeTrashDir overrides the default home trash location
	HomeTrashDir string

	// SkipExternal disables discovery of per-volume trash directories
	SkipExternal bool

	// AllowCrossDev lets Move fall back to copy-and-delete when the
	// destination is on another device
	AllowCrossDev bool
}

// StorageType represents the type of trash storage
type StorageType int

const (
	// StorageTypeXDG is the freedesktop.org trash ($XDG_DATA_HOME/Trash)
	StorageTypeXDG StorageType = iota

	// StorageTypeFinder is the macOS Finder trash (~/.Trash)
	StorageTypeFinder
)

func (t StorageType) String() string {
	switch t {
	case StorageTypeXDG:
		return "xdg"
	case StorageTypeFinder:
		return "finder"
	}
	return "unknown"
}

// NewDefaultConfig creates a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Type:          StorageTypeXDG,
		AllowCrossDev: true,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HomeTrashDir != "" && !filepath.IsAbs(c.HomeTrashDir) {
		return fmt.Errorf("home trash directory must be an absolute path: %s", c.HomeTrashDir)
	}
	return nil
}
