package port

import (
	"context"
	"fileupload/internal/core/domain"
)

// FileManager lists and relocates stored files
type FileManager interface {
	List(ctx context.Context, profile, deleteBaseURL string) ([]domain.FileRecord, error)
	Move(ctx context.Context, profile, name, targetDir string) (*domain.MoveResult, error)
}
