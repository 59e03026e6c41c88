//go:build !windows && !darwin

package trash

import (
	"fmt"

	"github.com/babarot/dormant/internal/trash/core"
	"github.com/babarot/dormant/internal/trash/xdg"
)

// DefaultType is the store type used when none is configured
const DefaultType = core.StorageTypeXDG

func newStorages(cfg core.Config) ([]core.Store, error) {
	if cfg.Type != core.StorageTypeXDG {
		return nil, fmt.Errorf("%s trash: %w", cfg.Type, core.ErrUnsupportedPlatform)
	}
	s, err := xdg.NewStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create XDG storage: %w", err)
	}
	return []core.Store{s}, nil
}
