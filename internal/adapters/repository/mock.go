package repository

import (
	"context"
	"fileupload/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockUploadedFileRepository struct {
	mock.Mock
}

func NewMockUploadedFileRepository() *MockUploadedFileRepository {
	return &MockUploadedFileRepository{}
}

func (m *MockUploadedFileRepository) Upsert(ctx context.Context, file domain.StoredFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockUploadedFileRepository) FindByName(ctx context.Context, profile, name string) (*domain.StoredFile, error) {
	args := m.Called(ctx, profile, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredFile), args.Error(1)
}

func (m *MockUploadedFileRepository) ListByProfile(ctx context.Context, profile string, limit int, marker *string) ([]domain.StoredFile, *string, error) {
	args := m.Called(ctx, profile, limit, marker)
	var next *string
	if v := args.Get(1); v != nil {
		next = v.(*string)
	}
	return args.Get(0).([]domain.StoredFile), next, args.Error(2)
}

func (m *MockUploadedFileRepository) Delete(ctx context.Context, profile, name string) error {
	args := m.Called(ctx, profile, name)
	return args.Error(0)
}
