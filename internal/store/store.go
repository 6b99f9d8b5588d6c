package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DefaultIDAttempts bounds how many candidates NewID draws before giving up.
const DefaultIDAttempts = 8

// ErrReadOnly is returned when a write is attempted inside View.
var ErrReadOnly = errors.New("store: write in read-only transaction")

// ErrIDExhausted is returned when every candidate id collided with an
// already issued one.
var ErrIDExhausted = errors.New("store: could not allocate a fresh id")

// Store owns the three entity collections.
//
// Thread-safety model:
//   - Update: exclusive, one writer at a time
//   - View: shared, concurrent with other readers, excluded by writers
type Store struct {
	mu         sync.RWMutex
	db         *sql.DB
	clock      *Clock
	ids        IDGenerator
	idAttempts int
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the default UUIDGenerator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

// WithIDAttempts sets how many id candidates are tried per allocation.
// Values below 1 are ignored.
func WithIDAttempts(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.idAttempts = n
		}
	}
}

// Open creates a fresh, empty in-memory store.
//
// The database is configured with:
//   - one pooled connection (an in-memory database is per connection)
//   - foreign key enforcement
func Open(ctx context.Context, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The whole database lives on this connection; it must never be recycled.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{
		db:         db,
		clock:      NewClock(),
		ids:        UUIDGenerator{},
		idAttempts: DefaultIDAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}

	slog.Debug("store opened", "id_attempts", s.idAttempts)
	return s, nil
}

// Close releases the database. All data is discarded.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	slog.Debug("store closed", "seq", s.clock.Current())
	return err
}

// Update runs fn inside an exclusive write transaction.
//
// The transaction commits when fn returns nil and rolls back otherwise,
// so a failed operation leaves no partial state behind. Hooks registered
// with Tx.AfterCommit run after a successful commit, before the writer
// lock is released.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return fmt.Errorf("update: %w", sql.ErrConnDone)
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update: begin tx: %w", err)
	}
	defer sqlTx.Rollback() // No-op if committed

	tx := &Tx{store: s, tx: sqlTx, writable: true}
	if err := fn(tx); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("update: commit: %w", err)
	}

	for _, hook := range tx.afterCommit {
		hook()
	}
	return nil
}

// View runs fn inside a read-only transaction under the shared lock.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return fmt.Errorf("view: %w", sql.ErrConnDone)
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("view: begin tx: %w", err)
	}
	defer sqlTx.Rollback() // Read-only: never committed

	return fn(&Tx{store: s, tx: sqlTx})
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
