package transform

import (
	"context"
	"fileupload/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockTransformer struct {
	mock.Mock
}

func NewMockTransformer() *MockTransformer {
	return &MockTransformer{}
}

func (m *MockTransformer) Transform(ctx context.Context, req domain.TransformRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
