package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisFeed publishes events on a redis channel. Run keeps one pub/sub
// connection open and hands received events to the local hub, so events
// published by other API instances reach this instance's subscribers.
type RedisFeed struct {
	client  *redis.Client
	channel string
	hub     *Hub
}

func NewRedisFeed(client *redis.Client, channel string) *RedisFeed {
	return &RedisFeed{
		client:  client,
		channel: channel,
		hub:     NewHub(),
	}
}

func (f *RedisFeed) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(filter Filter, h Handler) (Subscription, error) {
	return f.hub.Subscribe(filter, h)
}

// Run blocks until ctx is done or the pub/sub connection fails.
func (f *RedisFeed) Run(ctx context.Context) error {
	pubsub := f.client.Subscribe(ctx, f.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", f.channel, err)
	}
	f.hub.Resync()

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("redis channel %s closed", f.channel)
			}
			var e Event
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				zap.L().Warn("dropping malformed change event", zap.String("channel", f.channel), zap.Error(err))
				continue
			}
			f.hub.Deliver(e)
		}
	}
}

func (f *RedisFeed) Close() {
	f.hub.Close()
}
