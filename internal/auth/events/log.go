package events

import (
	"context"

	"github.com/aussiebroadwan/gatehouse/pkg/slogx"
)

// LogPublisher only logs that an event happened. Payloads are not logged
// because they carry tokens and codes.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, topic Topic, key string, _ any) error {
	slogx.FromContext(ctx).Info("event published", "topic", string(topic), "key", key)
	return nil
}

func (LogPublisher) Close() error { return nil }
