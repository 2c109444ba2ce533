package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockObjectMirror struct {
	mock.Mock
}

func NewMockObjectMirror() *MockObjectMirror {
	return &MockObjectMirror{}
}

func (m *MockObjectMirror) PutFile(ctx context.Context, key, path, contentType string) error {
	args := m.Called(ctx, key, path, contentType)
	return args.Error(0)
}

func (m *MockObjectMirror) RemoveObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
