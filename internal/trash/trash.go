// Package trash exposes the system trash as a single Store, whatever the
// platform keeps underneath.
package trash

import "github.com/babarot/dormant/internal/trash/core"

type (
	Store       = core.Store
	File        = core.File
	StorageInfo = core.StorageInfo
	Config      = core.Config
)

var (
	ErrNotFound            = core.ErrNotFound
	ErrStorageNotReady     = core.ErrStorageNotReady
	ErrUnsupportedPlatform = core.ErrUnsupportedPlatform
)
