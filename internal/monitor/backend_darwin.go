package monitor

import "fmt"

// NewWatcher returns the ChangeWatcher for a backend name: auto,
// fsnotify or fsevents. FSEvents is the automatic choice on macOS.
func NewWatcher(backend string) (ChangeWatcher, error) {
	switch backend {
	case "", "auto", "fsevents":
		return NewFSEvents(), nil
	case "fsnotify":
		return NewFSNotify(), nil
	}
	return nil, fmt.Errorf("unknown monitor backend %q", backend)
}
