// Package store provides the volatile, SQLite-backed entity collections of
// the graph data layer: users, posts and comments.
//
// The store is a private in-memory SQLite database held on a single pooled
// connection. Nothing is written to disk; the data lives exactly as long as
// the Store.
//
// # Critical Patterns
//
// Single writer:
//   - Update holds an exclusive lock and one SQL transaction for the whole
//     callback, so a multi-step cascade is never observed half-applied
//   - View holds a shared lock; readers run concurrently with each other
//   - AfterCommit hooks run after commit while the writer lock is still held,
//     so side effects are ordered exactly like commits
//
// Identity:
//   - Every issued id is recorded in entity_ids and never pruned, so a freed
//     id is never handed out again
//
// Deterministic reads:
//   - Every row carries a seq from the logical Clock
//   - All list queries use ORDER BY seq ASC, id COLLATE BINARY ASC
//
// Integrity backstops:
//   - foreign_keys=ON with REFERENCES on every foreign-key column
//   - UNIQUE(email) on users
//
// The store performs no domain validation; that belongs to the engine.
package store
