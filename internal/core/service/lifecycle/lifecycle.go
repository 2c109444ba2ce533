// Package lifecycle composes listeners for upload lifecycle events.
package lifecycle

import (
	"context"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"log/slog"
	"sync"
	"time"
)

const (
	publishTimeout = 5 * time.Second
	publishBuffer  = 256
)

type multiListener []port.EventListener

// Multi delivers every event to each non-nil listener in order
func Multi(listeners ...port.EventListener) port.EventListener {
	var out multiListener
	for _, l := range listeners {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (m multiListener) OnEvent(event domain.LifecycleEvent) {
	for _, l := range m {
		l.OnEvent(event)
	}
}

// NewLoggingListener logs every event
func NewLoggingListener(logger *slog.Logger) port.EventListener {
	return port.ListenerFunc(func(event domain.LifecycleEvent) {
		attrs := []any{"event", event.Type, "profile", event.Profile}
		if event.File != nil {
			attrs = append(attrs, "file", event.File.Name, "size", event.File.Size)
			if event.File.Error != "" {
				attrs = append(attrs, "file_error", event.File.Error)
			}
		}
		if event.Name != "" {
			attrs = append(attrs, "name", event.Name)
		}
		if event.Target != "" {
			attrs = append(attrs, "target", event.Target)
		}
		if event.Error != "" {
			attrs = append(attrs, "error", event.Error)
		}
		logger.Info("upload_event", attrs...)
	})
}

// PublishingListener forwards events to a publisher from a single background goroutine, in order
type PublishingListener struct {
	publisher port.EventPublisher
	logger    *slog.Logger
	base      context.Context

	mu     sync.RWMutex
	closed bool
	events chan domain.LifecycleEvent
	done   chan struct{}
}

// NewPublishingListener starts the publishing goroutine; ctx only carries values, its cancellation is ignored
func NewPublishingListener(ctx context.Context, publisher port.EventPublisher, logger *slog.Logger) *PublishingListener {
	l := &PublishingListener{
		publisher: publisher,
		logger:    logger,
		base:      context.WithoutCancel(ctx),
		events:    make(chan domain.LifecycleEvent, publishBuffer),
		done:      make(chan struct{}),
	}
	go l.run()
	return l
}

// OnEvent queues event without blocking the caller; events are dropped when the queue is full or closed
func (l *PublishingListener) OnEvent(event domain.LifecycleEvent) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.logger.Warn("publisher closed, dropping upload event", "event", event.Type, "profile", event.Profile)
		return
	}
	select {
	case l.events <- event:
	default:
		l.logger.Warn("publish queue full, dropping upload event", "event", event.Type, "profile", event.Profile)
	}
}

func (l *PublishingListener) run() {
	defer close(l.done)
	for event := range l.events {
		ctx, cancel := context.WithTimeout(l.base, publishTimeout)
		err := l.publisher.Publish(ctx, event)
		cancel()
		if err != nil {
			l.logger.Error("failed to publish upload event", "event", event.Type, "profile", event.Profile, "error", err)
		}
	}
}

// Close stops accepting events and waits for the queued ones until ctx is done
func (l *PublishingListener) Close(ctx context.Context) error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.events)
	}
	l.mu.Unlock()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
