package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ayushgw/graphql-basics/internal/events"
)

// DefaultBuffer is the per-subscription backlog when WithBuffer is not given.
const DefaultBuffer = 64

var (
	// ErrBrokerClosed is returned by Subscribe after Close.
	ErrBrokerClosed = errors.New("pubsub: broker closed")

	// ErrSubscriptionClosed is returned by Next once the subscription is
	// closed and its buffer is empty.
	ErrSubscriptionClosed = errors.New("pubsub: subscription closed")
)

// Policy selects what happens when a subscriber's buffer is full.
type Policy string

const (
	// DropOldest evicts the oldest buffered event to make room.
	DropOldest Policy = "drop_oldest"

	// DropNewest discards the incoming event.
	DropNewest Policy = "drop_newest"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case DropOldest, DropNewest:
		return p, nil
	default:
		return "", fmt.Errorf("unknown backpressure policy %q (want %q or %q)", s, DropOldest, DropNewest)
	}
}

// Broker routes published events to the subscribers of each topic.
//
// Thread-safety: all methods are safe for concurrent use.
type Broker struct {
	mu     sync.RWMutex
	nextID int64
	closed bool
	topics map[string][]*Subscription
	buffer int
	policy Policy
}

// Option configures a Broker.
type Option func(*Broker)

// WithBuffer sets the per-subscription buffer size. Values below 1 are ignored.
func WithBuffer(n int) Option {
	return func(b *Broker) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// WithPolicy sets the backpressure policy. Unknown policies are ignored.
func WithPolicy(p Policy) Option {
	return func(b *Broker) {
		if _, err := ParsePolicy(string(p)); err == nil {
			b.policy = p
		}
	}
}

// New creates a broker. Defaults: DefaultBuffer, DropOldest.
func New(opts ...Option) *Broker {
	b := &Broker{
		topics: make(map[string][]*Subscription),
		buffer: DefaultBuffer,
		policy: DropOldest,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a subscription on topic.
//
// The subscription is closed automatically when ctx is cancelled.
func (b *Broker) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	if topic == "" {
		return nil, fmt.Errorf("subscribe: empty topic")
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, fmt.Errorf("subscribe %s: %w", topic, ErrBrokerClosed)
	}
	b.nextID++
	sub := newSubscription(b.nextID, topic, b.buffer, b.policy, b)
	b.topics[topic] = append(b.topics[topic], sub)
	b.mu.Unlock()

	sub.watch(ctx)

	slog.Debug("subscription opened", "topic", topic, "subscription", sub.id)
	return sub, nil
}

// Publish delivers ev to every subscriber of topic in registration order
// and returns how many subscribers accepted it. It never blocks on a slow
// subscriber. Publishing on a closed broker delivers nothing.
func (b *Broker) Publish(topic string, ev events.Event) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0
	}

	delivered := 0
	for _, sub := range b.topics[topic] {
		if sub.enqueue(ev) {
			delivered++
		}
	}
	return delivered
}

// Subscribers returns the number of live subscriptions on topic.
func (b *Broker) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Close closes every subscription and rejects further subscribes.
// Close is idempotent.
func (b *Broker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	var subs []*Subscription
	for _, topicSubs := range b.topics {
		subs = append(subs, topicSubs...)
	}
	b.topics = make(map[string][]*Subscription)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.shutdown()
	}

	slog.Debug("broker closed", "subscriptions", len(subs))
	return nil
}

// unsubscribe removes sub from its topic, preserving the order of the rest.
func (b *Broker) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.topics[sub.topic]
	idx := slices.Index(subs, sub)
	if idx < 0 {
		return
	}
	subs = slices.Delete(subs, idx, idx+1)
	if len(subs) == 0 {
		delete(b.topics, sub.topic)
		return
	}
	b.topics[sub.topic] = subs
}
