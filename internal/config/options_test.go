package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushgw/graphql-basics/internal/events"
	"github.com/ayushgw/graphql-basics/internal/pubsub"
	"github.com/ayushgw/graphql-basics/internal/store"
)

func TestBrokerOptions(t *testing.T) {
	cfg := Default()
	cfg.Broker = BrokerConfig{Buffer: 1, Policy: "drop_newest"}

	b := pubsub.New(cfg.BrokerOptions()...)
	t.Cleanup(func() { _ = b.Close() })

	sub, err := b.Subscribe(context.Background(), "t")
	require.NoError(t, err)
	b.Publish("t", events.Counter(1))
	b.Publish("t", events.Counter(2))

	ev := <-sub.C()
	assert.Equal(t, int64(1), ev.Count, "drop_newest keeps the first event")
	assert.Equal(t, int64(1), sub.Dropped())
}

func TestStoreOptions(t *testing.T) {
	cfg := Default()
	cfg.IDs.Attempts = 2

	s, err := store.Open(context.Background(), cfg.StoreOptions()...)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
