package upload

import (
	"context"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"

	"github.com/stretchr/testify/mock"
)

type MockUploadService struct {
	mock.Mock
}

func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) Begin(ctx context.Context, opts port.SessionOptions) (port.UploadSession, error) {
	args := m.Called(ctx, opts)
	session, _ := args.Get(0).(port.UploadSession)
	return session, args.Error(1)
}

func (m *MockUploadService) Destroy(ctx context.Context, profile, name string, listener port.EventListener) (bool, error) {
	args := m.Called(ctx, profile, name, listener)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadService) Profile(name string) (domain.UploadProfile, error) {
	args := m.Called(name)
	return args.Get(0).(domain.UploadProfile), args.Error(1)
}
