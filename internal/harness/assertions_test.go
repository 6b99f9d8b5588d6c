package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushgw/graphql-basics/internal/events"
	"github.com/ayushgw/graphql-basics/internal/model"
)

func resultWithEvents(t *testing.T) *Result {
	t.Helper()
	r := NewResult()
	r.Refs["feed"] = events.PostTopic
	r.Refs["quiet"] = events.PostTopic
	r.Refs["u"] = "id-0001"

	p := model.NewPost("id-0002", "t", "b", true, "id-0001")
	r.addOp(OpCreatePost, map[string]any{"title": "t"}, p.CanonicalMap(), "")
	r.addEvent("feed", events.Event{Topic: events.PostTopic, Mutation: events.Created, Post: &p})
	r.addEvent("feed", events.Event{Topic: events.PostTopic, Mutation: events.Deleted, Post: &p})

	r.State[model.KindUser] = []map[string]any{
		model.NewUser("id-0001", "Ayush", "a@x.com", model.IntPtr(27)).CanonicalMap(),
	}
	r.State[model.KindPost] = []map[string]any{}
	r.Counts[model.KindUser] = 1
	return r
}

func TestAssertEventCount(t *testing.T) {
	r := resultWithEvents(t)

	assert.NoError(t, assertEventCount(r, Assertion{Type: AssertEventCount, Subscription: "feed", Count: 2}))
	assert.NoError(t, assertEventCount(r, Assertion{Type: AssertEventCount, Subscription: "quiet", Count: 0}))

	err := assertEventCount(r, Assertion{Type: AssertEventCount, Subscription: "feed", Count: 1})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "2 events", ae.Actual)
}

func TestAssertEventCount_UnknownSubscription(t *testing.T) {
	r := resultWithEvents(t)
	err := assertEventCount(r, Assertion{Type: AssertEventCount, Subscription: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no step bound that name")
}

func TestAssertEventSequence(t *testing.T) {
	r := resultWithEvents(t)

	assert.NoError(t, assertEventSequence(r, Assertion{
		Type: AssertEventSequence, Subscription: "feed", Mutations: []string{"CREATED", "DELETED"},
	}))

	err := assertEventSequence(r, Assertion{
		Type: AssertEventSequence, Subscription: "feed", Mutations: []string{"DELETED", "CREATED"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[CREATED DELETED]")

	err = assertEventSequence(r, Assertion{
		Type: AssertEventSequence, Subscription: "feed", Mutations: []string{"CREATED"},
	})
	assert.Error(t, err)
}

func TestAssertEntityCount(t *testing.T) {
	r := resultWithEvents(t)

	assert.NoError(t, assertEntityCount(r, Assertion{Type: AssertEntityCount, Kind: "user", Count: 1}))
	assert.NoError(t, assertEntityCount(r, Assertion{Type: AssertEntityCount, Kind: "post", Count: 0}))
	assert.NoError(t, assertEntityCount(r, Assertion{Type: AssertEntityCount, Kind: "comment", Count: 0}))
	assert.Error(t, assertEntityCount(r, Assertion{Type: AssertEntityCount, Kind: "user", Count: 2}))
}

func TestAssertFinalState(t *testing.T) {
	r := resultWithEvents(t)

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{
			name:      "subset match by reference",
			assertion: Assertion{Kind: "user", ID: "$u", Expect: map[string]any{"name": "Ayush", "age": 27}},
		},
		{
			name:      "plain id",
			assertion: Assertion{Kind: "user", ID: "id-0001", Expect: map[string]any{"email": "a@x.com"}},
		},
		{
			name:      "presence only",
			assertion: Assertion{Kind: "user", ID: "$u"},
		},
		{
			name:      "absent",
			assertion: Assertion{Kind: "post", ID: "id-0002", Absent: true},
		},
		{
			name:      "value mismatch",
			assertion: Assertion{Kind: "user", ID: "$u", Expect: map[string]any{"name": "Bruce"}},
			wantErr:   "name = Bruce",
		},
		{
			name:      "missing field",
			assertion: Assertion{Kind: "user", ID: "$u", Expect: map[string]any{"nickname": "a"}},
			wantErr:   "nickname",
		},
		{
			name:      "type mismatch",
			assertion: Assertion{Kind: "user", ID: "$u", Expect: map[string]any{"age": "27"}},
			wantErr:   "age",
		},
		{
			name:      "not found",
			assertion: Assertion{Kind: "post", ID: "id-0002"},
			wantErr:   "not found",
		},
		{
			name:      "unexpectedly present",
			assertion: Assertion{Kind: "user", ID: "$u", Absent: true},
			wantErr:   "present",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assertion.Type = AssertFinalState
			err := assertFinalState(r, tt.assertion)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEvaluateAssertions(t *testing.T) {
	r := resultWithEvents(t)

	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertEventCount, Subscription: "feed", Count: 2},
		{Type: AssertEntityCount, Kind: "user", Count: 5},
		{Type: "vibes"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "entity_count")
	assert.Contains(t, errs[1], `unknown assertion type "vibes"`)
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	r := resultWithEvents(t)
	err := &AssertionError{
		Type:     AssertEventCount,
		Expected: "1 events on feed",
		Actual:   "2 events",
		Trace:    r.Trace,
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: event_count")
	assert.Contains(t, msg, "Expected: 1 events on feed")
	assert.Contains(t, msg, "Actual: 2 events")
	assert.Contains(t, msg, "[1] create_post")
	assert.Contains(t, msg, "[2] feed <- CREATED")
	assert.Contains(t, msg, "[3] feed <- DELETED")
}

func TestResolveRef(t *testing.T) {
	refs := map[string]string{"u": "id-0001"}
	assert.Equal(t, "id-0001", resolveRef(refs, "$u"))
	assert.Equal(t, "$other", resolveRef(refs, "$other"))
	assert.Equal(t, "plain", resolveRef(refs, "plain"))
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, valuesEqual(nil, nil))
	assert.False(t, valuesEqual(nil, 1))
	assert.True(t, valuesEqual(27, 27))
	assert.False(t, valuesEqual(27, int64(27)))
	assert.True(t, valuesEqual(true, true))
	assert.True(t, valuesEqual("a", "a"))
}
