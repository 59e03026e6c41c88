// Package recovery moves everything out of a trash store into a directory,
// reporting each item separately.
package recovery

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/babarot/dormant/internal/trash"
)

var (
	// ErrInvalidDestination is returned when the destination is not an
	// existing directory
	ErrInvalidDestination = errors.New("invalid destination directory")

	// ErrStoreUnavailable is returned when the store cannot be listed
	ErrStoreUnavailable = errors.New("trash store unavailable")

	// ErrUnsafeName is reported for an item whose name would place it
	// outside the destination directory
	ErrUnsafeName = errors.New("unsafe item name")
)

type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failure"
}

// Outcome is the result for one trash item. Err is set exactly when Status
// is StatusFailure.
type Outcome struct {
	ItemName        string
	SourcePath      string
	DestinationPath string
	Status          Status
	Err             error
}

// ErrorDetail returns the failure message, or "" on success
func (o Outcome) ErrorDetail() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Engine recovers the items of one store
type Engine struct {
	store  trash.Store
	policy Policy
}

type Option func(*Engine)

// WithPolicy sets the name collision policy, PolicyFail by default
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

func New(store trash.Store, opts ...Option) *Engine {
	e := &Engine{store: store, policy: PolicyFail}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recover validates dest and lists the store, then moves the items one by
// one in store order, sending an Outcome for each. A failed item does not
// stop the run. The stream is closed after the last item.
func (e *Engine) Recover(dest string) (<-chan Outcome, error) {
	dest, err := checkDestination(dest)
	if err != nil {
		return nil, err
	}

	items, err := e.store.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	slog.Debug("recovering trash", "items", len(items), "dest", dest, "policy", e.policy)

	out := make(chan Outcome)
	go func() {
		defer close(out)
		for _, item := range items {
			out <- e.recoverOne(item, dest)
		}
	}()
	return out, nil
}

// RecoverAll runs Recover to the end and returns every outcome
func (e *Engine) RecoverAll(dest string) ([]Outcome, error) {
	stream, err := e.Recover(dest)
	if err != nil {
		return nil, err
	}
	var outcomes []Outcome
	for o := range stream {
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

func (e *Engine) recoverOne(item *trash.File, dest string) Outcome {
	o := Outcome{
		ItemName:   item.Name,
		SourcePath: item.TrashPath,
	}

	// Names come from trash metadata, which other users may write on
	// shared volumes
	if err := checkName(item.Name); err != nil {
		o.Status = StatusFailure
		o.Err = err
		slog.Warn("refusing to recover item", "name", item.Name, "from", item.TrashPath, "error", err)
		return o
	}
	o.DestinationPath = filepath.Join(dest, item.Name)

	force := false
	switch e.policy {
	case PolicyOverwrite:
		force = true
	case PolicyRename:
		o.DestinationPath = freeName(o.DestinationPath)
	}

	if filepath.Dir(o.DestinationPath) != dest {
		o.Status = StatusFailure
		o.Err = fmt.Errorf("%w: %q resolves outside %s", ErrUnsafeName, item.Name, dest)
		return o
	}

	if err := e.store.Move(item, o.DestinationPath, force); err != nil {
		o.Status = StatusFailure
		o.Err = err
		slog.Warn("failed to recover item", "name", item.Name, "from", item.TrashPath, "error", err)
		return o
	}

	o.Status = StatusSuccess
	slog.Debug("recovered item", "name", item.Name, "to", o.DestinationPath)
	return o
}

// checkName accepts a single path element naming a new entry in a directory
func checkName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	case strings.ContainsRune(name, '/'), strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrUnsafeName, name)
	}
	return nil
}

func checkDestination(dest string) (string, error) {
	if dest == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidDestination)
	}
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDestination, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDestination, err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidDestination, abs)
	}
	return abs, nil
}
