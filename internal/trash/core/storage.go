package core

// Store is a trash collection whose items can be listed and moved out
type Store interface {
	// List returns every item currently in the trash, in the store's
	// enumeration order
	List() ([]*File, error)

	// Move relocates file to dst and forgets it. When force is set an
	// existing dst is replaced, otherwise the move fails with
	// atomic.ErrDestinationExists.
	Move(file *File, dst string, force bool) error

	// Info returns detailed information about the storage
	Info() *StorageInfo
}

// Locator is implemented by stores reading more than one trash directory
type Locator interface {
	Locations() []*StorageInfo
}

// StorageLocation represents where the trash storage is located
type StorageLocation int

const (
	LocationHome StorageLocation = iota
	LocationExternal
)

func (l StorageLocation) String() string {
	if l == LocationExternal {
		return "external"
	}
	return "home"
}

// StorageInfo provides information about a trash storage
type StorageInfo struct {
	// Location indicates whether this is a home or external storage
	Location StorageLocation

	// Root is the root directory of this storage (e.g., ~/.local/share/Trash)
	Root string

	// Available indicates whether this storage is currently available
	Available bool

	Type StorageType
}
