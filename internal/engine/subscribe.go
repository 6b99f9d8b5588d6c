package engine

import (
	"context"
	"log/slog"

	"github.com/ayushgw/graphql-basics/internal/events"
	"github.com/ayushgw/graphql-basics/internal/pubsub"
	"github.com/ayushgw/graphql-basics/internal/store"
)

// SubscribePosts subscribes to visible post lifecycle events.
func (e *Engine) SubscribePosts(ctx context.Context) (*pubsub.Subscription, error) {
	return e.broker.Subscribe(ctx, events.PostTopic)
}

// SubscribeComments subscribes to comments created on one post.
//
// Fails with VALIDATION, before anything is registered, if the post does
// not exist or is not published. The check and the registration happen
// under one read lock, so no mutation can slip between them.
func (e *Engine) SubscribeComments(ctx context.Context, postID string) (*pubsub.Subscription, error) {
	var sub *pubsub.Subscription
	err := e.store.View(ctx, func(tx *store.Tx) error {
		if err := requirePublished(ctx, tx, postID); err != nil {
			return err
		}
		var err error
		sub, err = e.broker.Subscribe(ctx, events.CommentTopic(postID))
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("comment subscription opened", "post", postID, "subscribers", e.broker.Subscribers(sub.Topic()))
	return sub, nil
}

// SubscribeCount opens a count subscription: a private topic on which a
// counter starting at 1 is published every tick. The ticker stops when
// the subscription closes.
func (e *Engine) SubscribeCount(ctx context.Context) (*pubsub.Subscription, error) {
	topic := events.CounterTopicFor(e.counters.Add(1))
	sub, err := e.broker.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}

	ticker := e.newTicker(e.counterInterval)
	go e.runCounter(sub, topic, ticker)

	slog.Debug("count subscription started", "topic", topic, "interval", e.counterInterval)
	return sub, nil
}

func (e *Engine) runCounter(sub *pubsub.Subscription, topic string, ticker Ticker) {
	defer ticker.Stop()

	var n int64
	for {
		select {
		case <-sub.Done():
			return
		case <-ticker.C():
			n++
			ev := events.Counter(n)
			ev.Topic = topic
			e.broker.Publish(topic, ev)
		}
	}
}
