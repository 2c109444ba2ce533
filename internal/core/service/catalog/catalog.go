// Package catalog indexes finalized uploads from lifecycle events and mirrors them to object storage.
package catalog

import (
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"log/slog"
)

// maxConcurrentMirrors bounds the uploads of one file's primary and versions
const maxConcurrentMirrors = 4

type catalogService struct {
	profiles map[string]domain.UploadProfile
	repo     port.UploadedFileRepository
	mirror   port.ObjectMirror
	logger   *slog.Logger
}

// NewCatalogService creates the consumer side of lifecycle events
func NewCatalogService(profiles []domain.UploadProfile, repo port.UploadedFileRepository, mirror port.ObjectMirror, logger *slog.Logger) port.MessageService {
	byName := make(map[string]domain.UploadProfile, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
	}
	return &catalogService{
		profiles: byName,
		repo:     repo,
		mirror:   mirror,
		logger:   logger,
	}
}

// StorageKey is the object key of a stored file; version is empty for the primary
func StorageKey(profile, version, name string) string {
	if version == "" {
		return profile + "/" + name
	}
	return profile + "/" + version + "/" + name
}
