// Package relation resolves the derived relations between entities.
//
// Nothing here is cached: every call opens its own read transaction and
// re-derives the answer from current store state, so a resolver never
// returns a relation that a completed mutation has since changed.
package relation
