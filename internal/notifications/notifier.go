// Package notifications provides real-time blog event delivery.
package notifications

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/SAITARUN432/backendblog/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes blog events. With Redis every instance receives them
// through BlogEventsChannel; without it they go straight to the local hub.
type Notifier struct {
	rdb *redis.Client
	hub *Hub
}

// NewNotifier creates a new Notifier. Either argument may be nil.
func NewNotifier(rdb *redis.Client, hub *Hub) *Notifier {
	return &Notifier{rdb: rdb, hub: hub}
}

// Publish sends ev to every subscriber.
func (n *Notifier) Publish(ctx context.Context, ev Event) error {
	payload, err := ev.Encode()
	if err != nil {
		return err
	}
	if n.rdb == nil {
		if n.hub != nil {
			n.hub.BroadcastAll(payload)
		}
		return nil
	}
	return n.rdb.Publish(ctx, BlogEventsChannel, payload).Err()
}

// StartSubscriber subscribes to BlogEventsChannel and calls onMessage for each
// payload until ctx is cancelled.
func (n *Notifier) StartSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, BlogEventsChannel)
	// Wait for the subscription to be confirmed so no early publish is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in blog event subscriber",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
