package config

import (
	"github.com/ayushgw/graphql-basics/internal/engine"
	"github.com/ayushgw/graphql-basics/internal/pubsub"
	"github.com/ayushgw/graphql-basics/internal/store"
)

// StoreOptions returns the store options c selects.
func (c Config) StoreOptions() []store.Option {
	return []store.Option{store.WithIDAttempts(c.IDs.Attempts)}
}

// BrokerOptions returns the broker options c selects.
func (c Config) BrokerOptions() []pubsub.Option {
	return []pubsub.Option{
		pubsub.WithBuffer(c.Broker.Buffer),
		pubsub.WithPolicy(pubsub.Policy(c.Broker.Policy)),
	}
}

// EngineOptions returns the engine options c selects.
func (c Config) EngineOptions() []engine.Option {
	return []engine.Option{engine.WithCounterInterval(c.Counter.Interval)}
}
