package port

import (
	"context"
	"fileupload/internal/core/domain"
)

// EventListener receives lifecycle events of uploads, deletions and moves
type EventListener interface {
	OnEvent(event domain.LifecycleEvent)
}

// ListenerFunc adapts a function to EventListener
type ListenerFunc func(event domain.LifecycleEvent)

// OnEvent calls f(event)
func (f ListenerFunc) OnEvent(event domain.LifecycleEvent) {
	f(event)
}

// EventPublisher is an interface to define an event publisher (kafka, nats, ...)
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LifecycleEvent) error
}

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}
