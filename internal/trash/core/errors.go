package core

import "errors"

// Common errors that can be returned by Store implementations
var (
	ErrNotFound            = errors.New("file not found in trash")
	ErrStorageNotReady     = errors.New("storage is not ready")
	ErrUnsupportedPlatform = errors.New("trash is not supported on this platform")
	ErrNotOwned            = errors.New("file does not belong to any known storage")
)

// StorageError wraps an error with additional context about the storage operation
type StorageError struct {
	Op   string // Operation that failed (e.g., "list", "move")
	Path string // Path of the file that caused the error
	Err  error  // The underlying error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(op, path string, err error) error {
	return &StorageError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
