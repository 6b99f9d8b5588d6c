package store

import (
	"context"
	"fmt"

	"github.com/ayushgw/graphql-basics/internal/model"
)

// Tx is a handle on one Update or View transaction.
// It must not be used after the callback that received it returns.
type Tx struct {
	store       *Store
	tx          sqlTx
	writable    bool
	afterCommit []func()
}

// AfterCommit registers fn to run once the enclosing Update commits.
// Hooks run in registration order while the writer lock is still held.
// They are discarded if the transaction rolls back.
func (t *Tx) AfterCommit(fn func()) {
	t.afterCommit = append(t.afterCommit, fn)
}

// NewID issues a fresh id for an entity of the given kind.
//
// Candidates come from the store's IDGenerator. A candidate that was ever
// issued before, even for an entity since deleted, is rejected and another
// is drawn, up to the configured number of attempts.
func (t *Tx) NewID(ctx context.Context, kind model.Kind) (string, error) {
	if err := t.checkWritable("new id"); err != nil {
		return "", err
	}

	for attempt := 1; attempt <= t.store.idAttempts; attempt++ {
		id := t.store.ids.Generate()
		res, err := t.tx.ExecContext(ctx, `
			INSERT INTO entity_ids (id, kind, seq)
			VALUES (?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, id, string(kind), t.store.clock.Next())
		if err != nil {
			return "", fmt.Errorf("new %s id: %w", kind, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return "", fmt.Errorf("new %s id: rows affected: %w", kind, err)
		}
		if n == 1 {
			return id, nil
		}
	}

	return "", fmt.Errorf("new %s id after %d attempts: %w", kind, t.store.idAttempts, ErrIDExhausted)
}

func (t *Tx) checkWritable(op string) error {
	if !t.writable {
		return fmt.Errorf("%s: %w", op, ErrReadOnly)
	}
	return nil
}
