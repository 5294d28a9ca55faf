// Package redisbus publishes recorded events on Redis pub/sub channels, one
// channel per stream category.
package redisbus

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/louisbranch/storefront/internal/platform/logging"
	"github.com/louisbranch/storefront/internal/services/storefront/domain/event"
	"github.com/louisbranch/storefront/internal/services/storefront/messaging"
)

// ChannelPrefix precedes the stream category in channel names.
const ChannelPrefix = "storefront.events."

// Channel returns the channel a category's events are published on.
func Channel(category string) string {
	return ChannelPrefix + category
}

// Publisher issues one PUBLISH per event.
type Publisher struct {
	rdb goredis.UniversalClient
	log *logging.Logger
}

// NewPublisher wraps a connected client.
func NewPublisher(rdb goredis.UniversalClient, log *logging.Logger) *Publisher {
	return &Publisher{rdb: rdb, log: logging.OrNop(log).Named("redisbus")}
}

// Publish sends events in order through a pipeline.
func (p *Publisher) Publish(ctx context.Context, events []event.Recorded) error {
	if len(events) == 0 {
		return nil
	}
	if p == nil || p.rdb == nil {
		return fmt.Errorf("redis bus not initialized")
	}
	pipe := p.rdb.Pipeline()
	for _, rec := range events {
		payload, err := messaging.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", rec.ID, err)
		}
		pipe.Publish(ctx, Channel(rec.Category()), payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe forwards events published for categories to onEvent until ctx is
// done. It returns once the subscription is confirmed.
func (p *Publisher) Subscribe(ctx context.Context, onEvent func(event.Recorded), categories ...string) error {
	if p == nil || p.rdb == nil {
		return fmt.Errorf("redis bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	channels := make([]string, 0, len(categories))
	for _, category := range categories {
		channels = append(channels, Channel(category))
	}
	sub := p.rdb.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				rec, err := messaging.Unmarshal([]byte(m.Payload))
				if err != nil {
					p.log.Warn("bad redis event payload", "channel", m.Channel, "error", err)
					continue
				}
				onEvent(rec)
			}
		}
	}()
	return nil
}
