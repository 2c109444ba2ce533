package port

import (
	"context"
	"fileupload/internal/core/domain"
)

// UploadedFileRepository is the catalog of finalized uploads
type UploadedFileRepository interface {
	Upsert(ctx context.Context, file domain.StoredFile) error
	FindByName(ctx context.Context, profile, name string) (*domain.StoredFile, error)
	ListByProfile(ctx context.Context, profile string, limit int, marker *string) ([]domain.StoredFile, *string, error)
	Delete(ctx context.Context, profile, name string) error
}
