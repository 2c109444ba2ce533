package port

// Namer assigns collision-free names inside a destination directory
type Namer interface {
	// Reserve sanitizes candidate and claims a free name in dir
	Reserve(dir, candidate string) (string, error)
	// Release gives back a reservation that was never filled
	Release(dir, name string) error
}
