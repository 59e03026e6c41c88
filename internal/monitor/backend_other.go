//go:build !darwin

package monitor

import (
	"errors"
	"fmt"
)

var errFSEventsUnavailable = errors.New("fsevents backend is only available on macOS")

// NewWatcher returns the ChangeWatcher for a backend name: auto,
// fsnotify or fsevents.
func NewWatcher(backend string) (ChangeWatcher, error) {
	switch backend {
	case "", "auto", "fsnotify":
		return NewFSNotify(), nil
	case "fsevents":
		return nil, errFSEventsUnavailable
	}
	return nil, fmt.Errorf("unknown monitor backend %q", backend)
}
