package service

import (
	"context"

	"github.com/aussiebroadwan/gatehouse/internal/auth/events"
	"github.com/aussiebroadwan/gatehouse/internal/auth/metrics"
	"github.com/aussiebroadwan/gatehouse/pkg/slogx"
)

// publish hands an event to the publisher. Failures are logged and counted
// but never fail the flow that produced the event.
func publish(ctx context.Context, pub events.Publisher, m *metrics.Metrics, topic events.Topic, key string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, key, payload); err != nil {
		slogx.FromContext(ctx).Warn("event publish failed", "topic", string(topic), "err", err)
		m.EventFailed(string(topic))
	}
}
