package trash

import (
	"fmt"

	"github.com/babarot/dormant/internal/trash/core"
)

// DefaultType is the store type used when none is configured
const DefaultType = core.StorageTypeXDG

// The Recycle Bin keeps its items in $I/$R pairs under per-volume SID
// directories and is not readable without the shell API.
func newStorages(cfg core.Config) ([]core.Store, error) {
	return nil, fmt.Errorf("recycle bin: %w", core.ErrUnsupportedPlatform)
}
