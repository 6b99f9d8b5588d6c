package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ayushgw/graphql-basics/internal/model"
)

// sqlTx is the subset of *sql.Tx the store uses.
type sqlTx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Column lists, kept in one place so every SELECT scans the same shape.
const (
	userColumns    = "id, name, email, age"
	postColumns    = "id, title, body, published, author"
	commentColumns = "id, text, author, post"

	orderBySeq = "ORDER BY seq ASC, id COLLATE BINARY ASC"
)

func scanUser(row scanner) (model.User, error) {
	var u model.User
	var age sql.NullInt64
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &age); err != nil {
		return model.User{}, err
	}
	if age.Valid {
		u.Age = model.IntPtr(int(age.Int64))
	}
	return u, nil
}

func scanPost(row scanner) (model.Post, error) {
	var p model.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.Published, &p.Author); err != nil {
		return model.Post{}, err
	}
	return p, nil
}

func scanComment(row scanner) (model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.ID, &c.Text, &c.Author, &c.Post); err != nil {
		return model.Comment{}, err
	}
	return c, nil
}

// queryOne returns the single row matched by query.
// A missing row is reported as found=false, not as an error.
func queryOne[T any](ctx context.Context, tx sqlTx, scan func(scanner) (T, error), query string, args ...any) (T, bool, error) {
	v, err := scan(tx.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// queryAll returns every row matched by query.
// Returns an empty slice (not nil) if nothing matches.
func queryAll[T any](ctx context.Context, tx sqlTx, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}

func nullableAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*age), Valid: true}
}
