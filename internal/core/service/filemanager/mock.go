package filemanager

import (
	"context"
	"fileupload/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockFileManager struct {
	mock.Mock
}

func NewMockFileManager() *MockFileManager {
	return &MockFileManager{}
}

func (m *MockFileManager) List(ctx context.Context, profile, deleteBaseURL string) ([]domain.FileRecord, error) {
	args := m.Called(ctx, profile, deleteBaseURL)
	return args.Get(0).([]domain.FileRecord), args.Error(1)
}

func (m *MockFileManager) Move(ctx context.Context, profile, name, targetDir string) (*domain.MoveResult, error) {
	args := m.Called(ctx, profile, name, targetDir)
	return args.Get(0).(*domain.MoveResult), args.Error(1)
}
