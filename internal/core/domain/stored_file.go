package domain

import "time"

// StoredFile is the catalog entry of a finalized upload
type StoredFile struct {
	Profile    string
	Name       string
	Size       int64
	MimeType   string
	URL        string
	StorageKey string
	Versions   map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
