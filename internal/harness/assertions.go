package harness

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/ayushgw/graphql-basics/internal/model"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEntry // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, entry := range e.Trace {
			switch entry.Type {
			case TraceOp:
				status := "ok"
				if entry.Error != "" {
					status = entry.Error
				}
				fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", entry.Seq, entry.Op, entry.Args, status)
			case TraceEvent:
				fmt.Fprintf(&buf, "  [%d] %s <- %s\n", entry.Seq, entry.Subscription, entry.Event.Mutation)
			}
		}
	}

	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertEventCount:
			err = assertEventCount(result, assertion)
		case AssertEventSequence:
			err = assertEventSequence(result, assertion)
		case AssertEntityCount:
			err = assertEntityCount(result, assertion)
		case AssertFinalState:
			err = assertFinalState(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func requireSubscription(result *Result, assertion Assertion) error {
	if _, ok := result.Refs[assertion.Subscription]; !ok {
		return &AssertionError{
			Type:     assertion.Type,
			Expected: fmt.Sprintf("subscription %q", assertion.Subscription),
			Actual:   "no step bound that name",
		}
	}
	return nil
}

// assertEventCount checks that a subscription received exactly Count events.
func assertEventCount(result *Result, assertion Assertion) error {
	if err := requireSubscription(result, assertion); err != nil {
		return err
	}
	got := len(result.Events(assertion.Subscription))
	if got != assertion.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%d events on %s", assertion.Count, assertion.Subscription),
			Actual:   fmt.Sprintf("%d events", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertEventSequence checks the exact mutation order seen by a subscription.
func assertEventSequence(result *Result, assertion Assertion) error {
	if err := requireSubscription(result, assertion); err != nil {
		return err
	}
	evs := result.Events(assertion.Subscription)
	got := make([]string, len(evs))
	for i, ev := range evs {
		got[i] = string(ev.Mutation)
	}
	if !slices.Equal(got, assertion.Mutations) {
		return &AssertionError{
			Type:     AssertEventSequence,
			Expected: fmt.Sprintf("%v on %s", assertion.Mutations, assertion.Subscription),
			Actual:   fmt.Sprintf("%v", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertEntityCount checks the final size of a collection.
func assertEntityCount(result *Result, assertion Assertion) error {
	got := result.Counts[model.Kind(assertion.Kind)]
	if got != assertion.Count {
		return &AssertionError{
			Type:     AssertEntityCount,
			Expected: fmt.Sprintf("%d %s entities", assertion.Count, assertion.Kind),
			Actual:   fmt.Sprintf("%d", got),
		}
	}
	return nil
}

// assertFinalState checks one entity of the final state: either that it is
// absent, or that its fields contain Expect (subset match).
func assertFinalState(result *Result, assertion Assertion) error {
	id := resolveRef(result.Refs, assertion.ID)

	var entity map[string]any
	for _, e := range result.State[model.Kind(assertion.Kind)] {
		if e["id"] == id {
			entity = e
			break
		}
	}

	if assertion.Absent {
		if entity != nil {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s %s absent", assertion.Kind, id),
				Actual:   fmt.Sprintf("present: %v", entity),
			}
		}
		return nil
	}

	if entity == nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s %s present", assertion.Kind, id),
			Actual:   "not found",
		}
	}

	for field, want := range assertion.Expect {
		if s, ok := want.(string); ok {
			want = resolveRef(result.Refs, s)
		}
		got, exists := entity[field]
		if !exists || !valuesEqual(got, want) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s %s: %s = %v", assertion.Kind, id, field, want),
				Actual:   fmt.Sprintf("%s = %v", field, got),
			}
		}
	}
	return nil
}

// resolveRef maps "$name" to its bound id. Unknown names and plain
// strings are returned unchanged.
func resolveRef(refs map[string]string, s string) string {
	if name, ok := strings.CutPrefix(s, "$"); ok {
		if id, bound := refs[name]; bound {
			return id
		}
	}
	return s
}

// valuesEqual compares two values for equality.
func valuesEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}
	return reflect.DeepEqual(actual, expected)
}
