package harness

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ayushgw/graphql-basics/internal/engine"
	"github.com/ayushgw/graphql-basics/internal/model"
	"github.com/ayushgw/graphql-basics/internal/pubsub"
	"github.com/ayushgw/graphql-basics/internal/relation"
	"github.com/ayushgw/graphql-basics/internal/store"
)

// traceBuffer is the per-subscription backlog used while running a
// scenario. It is large enough that no scenario drops events.
const traceBuffer = 1024

// Harness runs one scenario against its own store, broker and engine.
type Harness struct {
	store    *store.Store
	broker   *pubsub.Broker
	engine   *engine.Engine
	resolver *relation.Resolver
	logger   *slog.Logger

	refs map[string]string
	subs []namedSubscription
}

type namedSubscription struct {
	name string
	sub  *pubsub.Subscription
}

// outcome is what a successful step produced.
type outcome struct {
	result any
	ref    string
	sub    *pubsub.Subscription
}

// Run executes a scenario and returns the result.
//
// Each scenario runs on a fresh in-memory store with sequential ids
// ("id-0001", "id-0002", ...), so traces are reproducible. After every
// step, events waiting on open subscriptions are appended to the trace,
// subscription by subscription in the order they were opened.
//
// The store, broker and engine log through the default slog logger, which
// is replaced by a discarding one until Run returns. Run must not be called
// concurrently with code that relies on the default logger.
//
// A returned error means the scenario could not be executed (bad
// arguments, unknown reference, store failure). Failed expectations and
// assertions are reported in Result.Errors instead.
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.DiscardHandler)
	prev := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(prev)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, store.WithIDGenerator(store.NewSequenceGenerator("id")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	broker := pubsub.New(pubsub.WithBuffer(traceBuffer))
	defer broker.Close()

	h := &Harness{
		store:    st,
		broker:   broker,
		engine:   engine.New(st, broker),
		resolver: relation.New(st),
		logger:   logger,
		refs:     make(map[string]string),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.runStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("steps[%d] %s: %w", i, step.Op, err)
		}
		h.drain(result)
	}

	if err := h.collectState(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to collect final state: %w", err)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) runStep(ctx context.Context, index int, step Step, result *Result) error {
	args, err := h.resolveArgs(step.Args)
	if err != nil {
		return err
	}

	out, opErr := h.dispatch(ctx, step.Op, args)
	if opErr != nil {
		code := engine.CodeOf(opErr)
		if code == "" {
			return opErr
		}
		result.addOp(step.Op, args, nil, string(code))
		h.logger.Debug("step failed", "index", index, "op", step.Op, "code", code)

		switch {
		case step.ExpectError == "":
			result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", index, step.Op, opErr))
		case step.ExpectError != string(code):
			result.AddError(fmt.Sprintf("steps[%d] %s: expected %s, got %s", index, step.Op, step.ExpectError, code))
		}
		return nil
	}

	result.addOp(step.Op, args, out.result, "")
	h.logger.Debug("step succeeded", "index", index, "op", step.Op)

	if step.ExpectError != "" {
		result.AddError(fmt.Sprintf("steps[%d] %s: expected %s, got success", index, step.Op, step.ExpectError))
	}

	if step.As != "" {
		switch {
		case out.sub != nil:
			h.subs = append(h.subs, namedSubscription{name: step.As, sub: out.sub})
			h.refs[step.As] = out.sub.Topic()
		case out.ref != "":
			h.refs[step.As] = out.ref
		}
		result.Refs[step.As] = h.refs[step.As]
	} else if out.sub != nil {
		// Unnamed subscriptions are never observed; release them now.
		_ = out.sub.Close()
	}
	return nil
}

// resolveArgs copies args, replacing "$name" strings with bound ids.
func (h *Harness) resolveArgs(args map[string]any) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		resolved, err := h.resolve(v)
		if err != nil {
			return nil, fmt.Errorf("arg %q: %w", k, err)
		}
		out[k] = resolved
	}
	return out, nil
}

func (h *Harness) resolve(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	name, isRef := strings.CutPrefix(s, "$")
	if !isRef {
		return s, nil
	}
	id, ok := h.refs[name]
	if !ok {
		return nil, fmt.Errorf("unknown reference %q", s)
	}
	return id, nil
}

// drain moves every queued event into the trace without blocking.
// Publishing happens before a mutation returns, so everything a step
// produced is already queued.
func (h *Harness) drain(result *Result) {
	for _, ns := range h.subs {
	loop:
		for {
			select {
			case ev, ok := <-ns.sub.C():
				if !ok {
					break loop
				}
				result.addEvent(ns.name, ev)
			default:
				break loop
			}
		}
	}
}

func (h *Harness) unsubscribe(name string) error {
	for i, ns := range h.subs {
		if ns.name == name {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			return ns.sub.Close()
		}
	}
	return fmt.Errorf("unknown subscription %q", name)
}

func (h *Harness) collectState(ctx context.Context, result *Result) error {
	users, err := h.resolver.Users(ctx, "")
	if err != nil {
		return err
	}
	posts, err := h.resolver.Posts(ctx, "")
	if err != nil {
		return err
	}
	comments, err := h.resolver.Comments(ctx)
	if err != nil {
		return err
	}
	result.State[model.KindUser] = canonicalMaps(users)
	result.State[model.KindPost] = canonicalMaps(posts)
	result.State[model.KindComment] = canonicalMaps(comments)

	return h.store.View(ctx, func(tx *store.Tx) error {
		for _, kind := range model.Kinds {
			n, err := tx.Count(ctx, kind)
			if err != nil {
				return err
			}
			result.Counts[kind] = n
		}
		return nil
	})
}

type canonicalMapper interface {
	CanonicalMap() map[string]any
}

func canonicalMaps[T canonicalMapper](items []T) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, item := range items {
		out[i] = item.CanonicalMap()
	}
	return out
}

func canonicalList[T canonicalMapper](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item.CanonicalMap()
	}
	return out
}

func canonicalFound[T canonicalMapper](item T, found bool) any {
	if !found {
		return map[string]any{"found": false}
	}
	return item.CanonicalMap()
}
