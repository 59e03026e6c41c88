package monitor

import (
	"strings"
	"time"
)

// Op is the kind of a filesystem change
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

func (op Op) String() string {
	var parts []string
	for _, o := range []struct {
		op   Op
		name string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
	} {
		if op&o.op != 0 {
			parts = append(parts, o.name)
		}
	}
	if len(parts) == 0 {
		return "[no events]"
	}
	return strings.Join(parts, "|")
}

// Change is one notification from a ChangeWatcher
type Change struct {
	Op    Op
	Path  string
	IsDir bool
	At    time.Time
}

// Subscription is a live watch on a tree
type Subscription interface {
	// Events delivers changes in arrival order
	Events() <-chan Change

	// Errors delivers failures of the underlying watch
	Errors() <-chan error

	// Close ends the watch and releases its resources. Nothing is sent
	// on Events once Close has returned.
	Close() error
}

// ChangeWatcher subscribes to changes under a directory, recursively
type ChangeWatcher interface {
	Subscribe(path string) (Subscription, error)
}
