package pubsub

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ayushgw/graphql-basics/internal/events"
)

// Subscription is one subscriber's live view of a topic.
type Subscription struct {
	id     int64
	topic  string
	policy Policy
	broker *Broker

	// mu serializes enqueue against shutdown so nothing is sent on a
	// closed channel. It also guards stop.
	mu      sync.Mutex
	queue   chan events.Event
	done    chan struct{}
	closed  bool
	dropped atomic.Int64
	stop    func() bool
	once    sync.Once
}

func newSubscription(id int64, topic string, buffer int, policy Policy, b *Broker) *Subscription {
	return &Subscription{
		id:     id,
		topic:  topic,
		policy: policy,
		broker: b,
		queue:  make(chan events.Event, buffer),
		done:   make(chan struct{}),
	}
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() string {
	return s.topic
}

// C returns the delivery channel. It is closed when the subscription closes.
func (s *Subscription) C() <-chan events.Event {
	return s.queue
}

// Done is closed when the subscription closes.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Dropped returns how many events this subscriber lost to a full buffer.
func (s *Subscription) Dropped() int64 {
	return s.dropped.Load()
}

// Next waits for the next event.
//
// It returns ErrSubscriptionClosed once the subscription is closed, or
// ctx's error if ctx ends first.
func (s *Subscription) Next(ctx context.Context) (events.Event, error) {
	select {
	case ev, ok := <-s.queue:
		if !ok {
			return events.Event{}, fmt.Errorf("next %s: %w", s.topic, ErrSubscriptionClosed)
		}
		return ev, nil
	case <-ctx.Done():
		return events.Event{}, fmt.Errorf("next %s: %w", s.topic, ctx.Err())
	}
}

// All returns a sequence over events as they arrive. The sequence ends
// when the subscription closes or ctx ends. Breaking out of the loop does
// not close the subscription.
func (s *Subscription) All(ctx context.Context) iter.Seq[events.Event] {
	return func(yield func(events.Event) bool) {
		for {
			ev, err := s.Next(ctx)
			if err != nil {
				return
			}
			if !yield(ev) {
				return
			}
		}
	}
}

// Close deregisters the subscription, releases its buffer and closes C.
// Close is idempotent.
func (s *Subscription) Close() error {
	s.broker.unsubscribe(s)
	s.shutdown()
	return nil
}

// shutdown closes the queue exactly once. Buffered events are discarded.
func (s *Subscription) shutdown() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
	drain:
		for {
			select {
			case <-s.queue:
			default:
				break drain
			}
		}
		close(s.queue)
		close(s.done)
		stop := s.stop
		s.mu.Unlock()

		if stop != nil {
			stop()
		}
		slog.Debug("subscription closed", "topic", s.topic, "subscription", s.id, "dropped", s.dropped.Load())
	})
}

// watch ties the subscription's lifetime to ctx.
func (s *Subscription) watch(ctx context.Context) {
	stop := context.AfterFunc(ctx, func() {
		_ = s.Close()
	})

	s.mu.Lock()
	closed := s.closed
	if !closed {
		s.stop = stop
	}
	s.mu.Unlock()

	if closed {
		stop()
	}
}

// enqueue applies the backpressure policy. It reports whether ev was buffered.
func (s *Subscription) enqueue(ev events.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	switch s.policy {
	case DropNewest:
		return s.enqueueDropNewest(ev)
	default:
		return s.enqueueDropOldest(ev)
	}
}

// enqueueDropNewest discards ev when the buffer is full.
func (s *Subscription) enqueueDropNewest(ev events.Event) bool {
	select {
	case s.queue <- ev:
		return true
	default:
		s.recordDrop()
		return false
	}
}

// enqueueDropOldest evicts one buffered event before enqueueing ev.
func (s *Subscription) enqueueDropOldest(ev events.Event) bool {
	select {
	case s.queue <- ev:
		return true
	default:
	}

	select {
	case <-s.queue:
		s.recordDrop()
	default:
	}

	select {
	case s.queue <- ev:
		return true
	default:
		s.recordDrop()
		return false
	}
}

// recordDrop counts a lost event. Only the first drop per subscription is
// logged at warn level.
func (s *Subscription) recordDrop() {
	n := s.dropped.Add(1)
	level := slog.LevelDebug
	if n == 1 {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "subscriber buffer full, event dropped",
		"topic", s.topic,
		"subscription", s.id,
		"policy", string(s.policy),
		"dropped", n)
}
