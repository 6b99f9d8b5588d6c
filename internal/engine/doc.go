// Package engine enforces referential integrity over the entity store.
//
// Every mutation runs as one store Update: validation first, then the
// writes, cascades included. A failed operation rolls back without a
// trace, and readers never see a half-applied cascade because Update
// holds the store's writer lock for its whole span.
//
// ERROR KINDS:
//
//   - NOT_FOUND: the targeted id does not exist
//   - CONFLICT: an email is already taken by another user
//   - VALIDATION: a referenced user or post is missing, or a post is not published
//
// EVENTS:
//
// Post and comment transitions are turned into lifecycle events by the
// events package and published after commit, while the writer lock is
// still held. Subscribers therefore see events in commit order, and an
// operation that rolls back publishes nothing.
//
// Deleting a user cascades in a fixed order: for each of the user's posts,
// its comments and then the post; then the user's remaining comments; then
// the user. No comment outlives its post or its author.
package engine
