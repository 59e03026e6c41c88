package core

import (
	"io/fs"
	"time"
)

// File represents a file in trash
type File struct {
	// Name is the original base name of the file
	Name string

	// OriginalPath is the absolute path where the file was located
	OriginalPath string

	// TrashPath is the absolute path where the file is stored in trash
	TrashPath string

	// DeletedAt is when the file was moved to trash, zero if unknown
	DeletedAt time.Time

	// Size is the size of the file in bytes
	Size int64

	// IsDir indicates if this is a directory
	IsDir bool

	// FileMode is the mode of the trashed entry
	FileMode fs.FileMode

	// storage is the Store that listed this file
	storage Store
}

// SetStorage sets the storage reference for this file
// This is used internally by Store implementations
func (f *File) SetStorage(s Store) {
	f.storage = s
}

// GetStorage returns the storage reference for this file
func (f *File) GetStorage() Store {
	return f.storage
}
