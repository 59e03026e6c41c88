// Package monitor reports file deletions under a directory as they happen.
package monitor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

var (
	// ErrSetup is returned by Start when the folder cannot be watched
	ErrSetup = errors.New("failed to start monitor")

	// ErrAlreadyRunning is returned by Start while a previous Start has
	// not been stopped
	ErrAlreadyRunning = errors.New("monitor is already running")
)

// DeletionEvent reports a file that was removed
type DeletionEvent struct {
	Path       string    `json:"path"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Monitor turns the changes of a ChangeWatcher into deletion events. One
// Monitor watches one folder at a time; it can be started again once
// stopped.
type Monitor struct {
	watcher ChangeWatcher
	errs    chan error

	mu      sync.Mutex
	running bool
	sub     Subscription
	out     chan DeletionEvent
	done    chan struct{}
	wg      sync.WaitGroup
}

func New(w ChangeWatcher) *Monitor {
	return &Monitor{
		watcher: w,
		errs:    make(chan error, 16),
	}
}

// Start watches folder and returns the deletion stream. The stream is
// unbuffered and is closed by Stop.
func (m *Monitor) Start(folder string) (<-chan DeletionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil, ErrAlreadyRunning
	}

	fi, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSetup, folder)
	}

	sub, err := m.watcher.Subscribe(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}

	m.running = true
	m.sub = sub
	m.out = make(chan DeletionEvent)
	m.done = make(chan struct{})

	m.wg.Add(1)
	go m.forward(sub, m.out, m.done)

	slog.Debug("monitor started", "folder", folder)
	return m.out, nil
}

// Stop ends the subscription and waits for delivery to stop. Once it
// returns no event is sent and the stream is closed. Stopping a monitor
// that is not running does nothing.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	m.running = false

	close(m.done)
	err := m.sub.Close()
	m.wg.Wait()
	close(m.out)
	m.sub = nil

	slog.Debug("monitor stopped", "error", err)
	return err
}

// Errors reports failures of the underlying watch while running. Errors
// are dropped when nobody reads them.
func (m *Monitor) Errors() <-chan error {
	return m.errs
}

func (m *Monitor) forward(sub Subscription, out chan<- DeletionEvent, done <-chan struct{}) {
	defer m.wg.Done()

	events, errs := sub.Events(), sub.Errors()
	for {
		select {
		case <-done:
			return

		case c, ok := <-events:
			if !ok {
				slog.Warn("change stream closed by watcher")
				return
			}
			if c.Op&OpRemove == 0 || c.IsDir {
				continue
			}
			select {
			case out <- DeletionEvent{Path: c.Path, OccurredAt: c.At}:
			case <-done:
				return
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Warn("watch error", "error", err)
			select {
			case m.errs <- err:
			default:
			}
		}
	}
}
