package monitor

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"
)

// FSNotify watches trees through inotify, kqueue or ReadDirectoryChangesW.
// Those only watch single directories, so every subdirectory gets its own
// watch, including ones created after Subscribe.
type FSNotify struct{}

func NewFSNotify() *FSNotify {
	return &FSNotify{}
}

func (FSNotify) Subscribe(path string) (Subscription, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	s := &fsnotifySubscription{
		watcher: w,
		events:  make(chan Change),
		errs:    make(chan error, 8),
		done:    make(chan struct{}),
		dirs:    make(map[string]struct{}),
	}
	if err := s.addTree(path, true); err != nil {
		w.Close()
		return nil, err
	}

	s.wg.Add(1)
	go s.loop()
	return s, nil
}

type fsnotifySubscription struct {
	watcher *fsnotify.Watcher
	events  chan Change
	errs    chan error
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup

	// Removal events don't say what was removed, so watched
	// directories are remembered
	mu   sync.Mutex
	dirs map[string]struct{}
}

func (s *fsnotifySubscription) Events() <-chan Change { return s.events }
func (s *fsnotifySubscription) Errors() <-chan error  { return s.errs }

func (s *fsnotifySubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.watcher.Close()
		s.wg.Wait()
	})
	return err
}

// addTree watches root and every directory below it. With strict set a
// failure on root itself is returned; anything else is logged.
func (s *fsnotifySubscription) addTree(root string, strict bool) error {
	if err := s.add(root); err != nil {
		if strict {
			return err
		}
		slog.Debug("failed to watch directory", "path", root, "error", err)
		return nil
	}

	conf := &fastwalk.Config{Follow: false}
	return fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("skipping unreadable directory", "path", path, "error", err)
			return nil
		}
		if path == root || !d.IsDir() {
			return nil
		}
		if err := s.add(path); err != nil {
			slog.Debug("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (s *fsnotifySubscription) add(dir string) error {
	if err := s.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	s.mu.Lock()
	s.dirs[dir] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *fsnotifySubscription) isDir(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dirs[path]
	return ok
}

func (s *fsnotifySubscription) forget(path string) {
	s.mu.Lock()
	delete(s.dirs, path)
	s.mu.Unlock()
}

// unwatchTree drops the watches on dir and every directory below it. A
// directory renamed out of the tree stays watched by inotify, so its later
// changes would otherwise be reported under the old path.
func (s *fsnotifySubscription) unwatchTree(dir string) {
	prefix := dir + string(filepath.Separator)

	s.mu.Lock()
	var gone []string
	for d := range s.dirs {
		if d == dir || strings.HasPrefix(d, prefix) {
			gone = append(gone, d)
			delete(s.dirs, d)
		}
	}
	s.mu.Unlock()

	for _, d := range gone {
		// Removed directories lose their watch on their own
		if err := s.watcher.Remove(d); err != nil {
			slog.Debug("failed to unwatch directory", "path", d, "error", err)
		}
	}
}

func (s *fsnotifySubscription) loop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return

		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			c := s.translate(ev)
			select {
			case s.events <- c:
			case <-s.done:
				return
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			select {
			case s.errs <- err:
			default:
				slog.Warn("dropping watch error", "error", err)
			}
		}
	}
}

func (s *fsnotifySubscription) translate(ev fsnotify.Event) Change {
	c := Change{Path: ev.Name, At: time.Now()}

	if ev.Has(fsnotify.Create) {
		c.Op |= OpCreate
		if fi, err := os.Lstat(ev.Name); err == nil && fi.IsDir() {
			c.IsDir = true
			_ = s.addTree(ev.Name, false)
		} else {
			// The path may have been a directory before
			s.forget(ev.Name)
		}
	}
	if ev.Has(fsnotify.Write) {
		c.Op |= OpWrite
	}
	if ev.Has(fsnotify.Remove) {
		c.Op |= OpRemove
	}
	if ev.Has(fsnotify.Rename) {
		c.Op |= OpRename
	}
	if ev.Has(fsnotify.Chmod) {
		c.Op |= OpChmod
	}
	if c.Op&(OpRemove|OpRename) != 0 {
		c.IsDir = s.isDir(ev.Name)
		if c.IsDir {
			s.unwatchTree(ev.Name)
		}
	}
	return c
}
