package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBus publishes events on a Redis Pub/Sub channel.
type RedisBus struct {
	rdb     *redis.Client
	channel string
}

// NewRedisBus creates a RedisBus on channel.
func NewRedisBus(rdb *redis.Client, channel string) *RedisBus {
	return &RedisBus{rdb: rdb, channel: channel}
}

// Publish implements Publisher.
func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	payload, err := encode(e)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe implements Bus. Payloads are forwarded as published, without
// decoding.
func (b *RedisBus) Subscribe(ctx context.Context) (*Subscription, error) {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	// Wait for the subscription confirmation so errors surface here.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	out := make(chan []byte, subscriberBuffer)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			default:
			}
		}
	}()

	return &Subscription{C: out, close: pubsub.Close}, nil
}
