package atomic

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempManager hands out collision-free names inside a base directory
type TempManager struct {
	baseDir string
}

// NewTempManager creates a new TempManager instance
func NewTempManager(baseDir string) (*TempManager, error) {
	fi, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("stat temp directory: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s: %w", baseDir, ErrInvalidDestination)
	}
	return &TempManager{baseDir: baseDir}, nil
}

// Name returns a fresh path under the base directory, not yet created
func (m *TempManager) Name(prefix string) string {
	return filepath.Join(m.baseDir, fmt.Sprintf("%s.%s.tmp", prefix, uuid.NewString()))
}
