package eventbroker

import (
	"context"
	"fileupload/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.LifecycleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
