package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayushgw/graphql-basics/internal/events"
)

func TestRequireEvent(t *testing.T) {
	ch := make(chan events.Event, 1)
	ch <- events.Counter(1)

	ev := RequireEvent(t, ch)
	assert.Equal(t, int64(1), ev.Count)
}

func TestRequireNoEvent_Empty(t *testing.T) {
	RequireNoEvent(t, make(chan events.Event))
}

func TestDrain(t *testing.T) {
	ch := make(chan events.Event, 3)
	ch <- events.Counter(1)
	ch <- events.Counter(2)

	got := Drain(ch)
	assert.Len(t, got, 2)
	assert.Empty(t, Drain(ch))

	close(ch)
	RequireClosed(t, ch)
}
