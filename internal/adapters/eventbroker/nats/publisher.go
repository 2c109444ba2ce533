package nats

import (
	"context"
	"encoding/json"
	"fileupload/internal/config"
	"fileupload/internal/core/domain"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher publishes lifecycle events to a JetStream subject
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
}

// NewNATSPublisher connects and makes sure the stream exists
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg, "upload-api", logger)
	if err != nil {
		return nil, err
	}
	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}
	return &Publisher{logger: logger, conn: conn, js: js, config: cfg}, nil
}

// Publish sends event as JSON
func (p *Publisher) Publish(ctx context.Context, event domain.LifecycleEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := p.js.Publish(ctx, p.config.Subject, data, jetstream.WithMsgID(uuid.NewString())); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close drains the connection
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
