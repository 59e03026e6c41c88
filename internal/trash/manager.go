package trash

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/babarot/dormant/internal/trash/core"
)

// Manager presents several stores as one. It implements Store.
type Manager struct {
	storages []core.Store
}

// NewManager opens the stores of the current platform
func NewManager(cfg *core.Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	storages, err := newStorages(*cfg)
	if err != nil {
		return nil, err
	}
	if len(storages) == 0 {
		return nil, errors.New("no storage backend configured")
	}

	slog.Debug("trash storages ready", "types", lo.Map(storages, func(s core.Store, _ int) string {
		return s.Info().Type.String()
	}))
	return NewManagerWith(storages...), nil
}

// NewManagerWith builds a manager over the given stores
func NewManagerWith(storages ...core.Store) *Manager {
	return &Manager{storages: storages}
}

// List returns the files of every store, store by store. A failing store
// is skipped unless all of them fail.
func (m *Manager) List() ([]*core.File, error) {
	var allFiles []*core.File
	var errs []error

	for _, storage := range m.storages {
		files, err := storage.List()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to list files from %s: %w", storage.Info().Root, err))
			continue
		}
		allFiles = append(allFiles, files...)
	}

	if len(errs) > 0 && len(errs) == len(m.storages) {
		return nil, errors.Join(errs...)
	}
	for _, err := range errs {
		slog.Warn("trash storage skipped", "error", err)
	}

	return allFiles, nil
}

// Move hands file to the store that owns it
func (m *Manager) Move(file *core.File, dst string, force bool) error {
	storage := m.owner(file)
	if storage == nil {
		return core.NewStorageError("move", file.TrashPath, core.ErrNotOwned)
	}
	return storage.Move(file, dst, force)
}

func (m *Manager) owner(file *core.File) core.Store {
	if s := file.GetStorage(); s != nil && lo.Contains(m.storages, s) {
		return s
	}
	for _, storage := range m.storages {
		for _, info := range locationsOf(storage) {
			if strings.HasPrefix(file.TrashPath, info.Root+string(filepath.Separator)) {
				return storage
			}
		}
	}
	return nil
}

func locationsOf(s core.Store) []*core.StorageInfo {
	if l, ok := s.(core.Locator); ok {
		return l.Locations()
	}
	return []*core.StorageInfo{s.Info()}
}

// Info describes the primary store
func (m *Manager) Info() *core.StorageInfo {
	if len(m.storages) == 0 {
		return &core.StorageInfo{}
	}
	return m.storages[0].Info()
}

// ListStorages describes every trash directory behind the manager, store
// by store
func (m *Manager) ListStorages() []*core.StorageInfo {
	return lo.FlatMap(m.storages, func(s core.Store, _ int) []*core.StorageInfo {
		return locationsOf(s)
	})
}
