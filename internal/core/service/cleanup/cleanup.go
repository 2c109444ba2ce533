package cleanup

import (
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"log/slog"
)

type cleanupService struct {
	profiles []domain.UploadProfile
	logger   *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(profiles []domain.UploadProfile, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		profiles: profiles,
		logger:   logger,
	}
}
