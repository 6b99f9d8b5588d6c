package harness

import (
	"github.com/ayushgw/graphql-basics/internal/events"
	"github.com/ayushgw/graphql-basics/internal/model"
)

// Trace entry types.
const (
	TraceOp    = "op"
	TraceEvent = "event"
)

// TraceEntry is one step outcome or one delivered event.
//
// Op entries carry Op, Args and either Result or Error. Event entries
// carry Subscription and Event.
type TraceEntry struct {
	Seq          int64          `json:"seq"`
	Type         string         `json:"type"`
	Op           string         `json:"op,omitempty"`
	Args         map[string]any `json:"args,omitempty"`
	Result       any            `json:"result,omitempty"`
	Error        string         `json:"error,omitempty"`
	Subscription string         `json:"subscription,omitempty"`
	Event        *events.Event  `json:"event,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step behaved as expected and
	// every assertion held.
	Pass bool `json:"pass"`

	// Trace holds step outcomes interleaved with the events each step
	// delivered, in order.
	Trace []TraceEntry `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State holds the final contents of every collection keyed by kind,
	// each entity in canonical map form.
	State map[model.Kind][]map[string]any `json:"state,omitempty"`

	// Counts holds the number of stored entities of every kind.
	Counts map[model.Kind]int `json:"counts,omitempty"`

	// Refs maps names bound with "as" to entity ids.
	Refs map[string]string `json:"refs,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEntry{},
		Errors: []string{},
		State:  make(map[model.Kind][]map[string]any),
		Counts: make(map[model.Kind]int),
		Refs:   make(map[string]string),
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addOp(op string, args map[string]any, result any, code string) {
	r.Trace = append(r.Trace, TraceEntry{
		Seq:    int64(len(r.Trace) + 1),
		Type:   TraceOp,
		Op:     op,
		Args:   args,
		Result: result,
		Error:  code,
	})
}

func (r *Result) addEvent(subscription string, ev events.Event) {
	r.Trace = append(r.Trace, TraceEntry{
		Seq:          int64(len(r.Trace) + 1),
		Type:         TraceEvent,
		Subscription: subscription,
		Event:        &ev,
	})
}

// Events returns the events delivered to the named subscription.
func (r *Result) Events(subscription string) []events.Event {
	var out []events.Event
	for _, entry := range r.Trace {
		if entry.Type == TraceEvent && entry.Subscription == subscription {
			out = append(out, *entry.Event)
		}
	}
	return out
}
