package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("events")

// RedisBus publishes session events over Redis Pub/Sub so any server
// process can serve a session's watchers.
type RedisBus struct {
	rdb *redis.Client
}

// NewRedisBus creates a Redis-backed bus.
func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

// Publish sends event on its session channel.
func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	ctx, span := tracer.Start(ctx, "RedisBus.Publish", trace.WithAttributes(
		attribute.String("session.id", event.SessionID),
		attribute.String("event.type", event.Type),
	))
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.rdb.Publish(ctx, SessionChannel(event.SessionID), data).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to publish event")
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

// Subscribe listens on the session channel. The returned channel is closed
// when the subscription is closed or ctx is done.
func (b *RedisBus) Subscribe(ctx context.Context, sessionID string) (*Subscription, error) {
	ctx, span := tracer.Start(ctx, "RedisBus.Subscribe", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	pubsub := b.rdb.Subscribe(ctx, SessionChannel(sessionID))
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to subscribe")
		return nil, fmt.Errorf("failed to subscribe to session %s: %w", sessionID, err)
	}

	out := make(chan Event, localBufferSize)
	go func() {
		defer close(out)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				pubsub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					slog.ErrorContext(ctx, "Could not unmarshal session event", "session.id", sessionID, "error", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					pubsub.Close()
					return
				}
			}
		}
	}()

	return &Subscription{C: out, close: pubsub.Close}, nil
}
