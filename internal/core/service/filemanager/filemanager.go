package filemanager

import (
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"fileupload/internal/core/service/naming"
	"log/slog"
)

// maxConcurrentVersionMoves bounds the goroutines moving derivatives of one file
const maxConcurrentVersionMoves = 4

type fileManager struct {
	profiles map[string]domain.UploadProfile
	listener port.EventListener
	logger   *slog.Logger
}

// NewFileManager creates a new file manager
func NewFileManager(profiles []domain.UploadProfile, listener port.EventListener, logger *slog.Logger) port.FileManager {
	byName := make(map[string]domain.UploadProfile, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
	}
	return &fileManager{profiles: byName, listener: listener, logger: logger}
}

func (f *fileManager) profile(name string) (domain.UploadProfile, error) {
	p, ok := f.profiles[name]
	if !ok {
		return domain.UploadProfile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (f *fileManager) namer(p domain.UploadProfile) port.Namer {
	return naming.New(p.NamingPolicy)
}
