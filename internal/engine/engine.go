package engine

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ayushgw/graphql-basics/internal/events"
	"github.com/ayushgw/graphql-basics/internal/model"
	"github.com/ayushgw/graphql-basics/internal/pubsub"
	"github.com/ayushgw/graphql-basics/internal/store"
)

// DefaultCounterInterval is the tick period of count subscriptions.
const DefaultCounterInterval = time.Second

// Ticker is the part of time.Ticker a count subscription needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Engine performs validated mutations on a store and publishes the
// resulting lifecycle events.
//
// Thread-safety: all methods are safe for concurrent use. Mutations are
// serialized by the store's writer lock.
type Engine struct {
	store  *store.Store
	broker *pubsub.Broker

	counterInterval time.Duration
	newTicker       func(time.Duration) Ticker
	counters        atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithCounterInterval sets the tick period of count subscriptions.
// Non-positive durations are ignored.
func WithCounterInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.counterInterval = d
		}
	}
}

// WithTicker replaces the wall-clock ticker used by count subscriptions.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(e *Engine) {
		e.newTicker = newTicker
	}
}

// New creates an Engine over s that publishes to b.
func New(s *store.Store, b *pubsub.Broker, opts ...Option) *Engine {
	e := &Engine{
		store:           s,
		broker:          b,
		counterInterval: DefaultCounterInterval,
		newTicker:       newTimeTicker,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying store.
func (e *Engine) Store() *store.Store {
	return e.store
}

// publishPost schedules the event for a post transition, if it has one.
func (e *Engine) publishPost(tx *store.Tx, pre, post *model.Post) {
	if ev, ok := events.ForPost(pre, post); ok {
		e.publishAfterCommit(tx, ev)
	}
}

// publishComment schedules the event for a comment transition, if it has one.
func (e *Engine) publishComment(tx *store.Tx, pre, post *model.Comment) {
	if ev, ok := events.ForComment(pre, post); ok {
		e.publishAfterCommit(tx, ev)
	}
}

func (e *Engine) publishAfterCommit(tx *store.Tx, ev events.Event) {
	tx.AfterCommit(func() {
		n := e.broker.Publish(ev.Topic, ev)
		slog.Debug("event published",
			"topic", ev.Topic,
			"mutation", string(ev.Mutation),
			"subscribers", n)
	})
}
