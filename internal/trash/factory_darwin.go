package trash

import (
	"fmt"

	"github.com/babarot/dormant/internal/trash/core"
	"github.com/babarot/dormant/internal/trash/finder"
	"github.com/babarot/dormant/internal/trash/xdg"
)

// DefaultType is the store type used when none is configured
const DefaultType = core.StorageTypeFinder

func newStorages(cfg core.Config) ([]core.Store, error) {
	switch cfg.Type {
	case core.StorageTypeFinder:
		s, err := finder.NewStorage(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open Finder trash: %w", err)
		}
		return []core.Store{s}, nil
	case core.StorageTypeXDG:
		s, err := xdg.NewStorage(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create XDG storage: %w", err)
		}
		return []core.Store{s}, nil
	}
	return nil, fmt.Errorf("unknown storage type: %v", cfg.Type)
}
