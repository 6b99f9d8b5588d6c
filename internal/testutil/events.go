package testutil

import (
	"testing"
	"time"

	"github.com/ayushgw/graphql-basics/internal/events"
)

// EventTimeout bounds how long the receive helpers wait.
const EventTimeout = 2 * time.Second

// QuietPeriod is how long RequireNoEvent watches a channel.
const QuietPeriod = 50 * time.Millisecond

// RequireEvent receives one event from ch or fails the test.
func RequireEvent(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatalf("event channel closed")
		}
		return ev
	case <-time.After(EventTimeout):
		t.Fatalf("no event within %s", EventTimeout)
		return events.Event{}
	}
}

// RequireNoEvent fails the test if ch delivers an event within QuietPeriod.
// A closed channel counts as no event.
func RequireNoEvent(t *testing.T, ch <-chan events.Event) {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if ok {
			t.Fatalf("unexpected event: %s %s", ev.Topic, ev.Mutation)
		}
	case <-time.After(QuietPeriod):
	}
}

// RequireClosed fails the test unless ch is closed within EventTimeout.
// Buffered events ahead of the close are discarded.
func RequireClosed(t *testing.T, ch <-chan events.Event) {
	t.Helper()
	deadline := time.After(EventTimeout)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("channel not closed within %s", EventTimeout)
		}
	}
}

// Drain returns every event currently buffered in ch without waiting.
func Drain(ch <-chan events.Event) []events.Event {
	var out []events.Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}
