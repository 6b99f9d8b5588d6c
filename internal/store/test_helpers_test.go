package store

import (
	"context"
	"testing"

	"github.com/ayushgw/graphql-basics/internal/model"
)

// createTestStore creates a fresh in-memory store with sequential ids.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithIDGenerator(NewSequenceGenerator("id"))}, opts...)
	s, err := Open(context.Background(), opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedUser inserts a user inside its own Update and returns it.
func seedUser(t *testing.T, s *Store, name, email string) model.User {
	t.Helper()
	var out model.User
	err := s.Update(context.Background(), func(tx *Tx) error {
		id, err := tx.NewID(context.Background(), model.KindUser)
		if err != nil {
			return err
		}
		out, err = tx.InsertUser(context.Background(), model.NewUser(id, name, email, nil))
		return err
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return out
}

// seedPost inserts a post inside its own Update and returns it.
func seedPost(t *testing.T, s *Store, author string, published bool) model.Post {
	t.Helper()
	var out model.Post
	err := s.Update(context.Background(), func(tx *Tx) error {
		id, err := tx.NewID(context.Background(), model.KindPost)
		if err != nil {
			return err
		}
		out, err = tx.InsertPost(context.Background(), model.NewPost(id, "title "+id, "body "+id, published, author))
		return err
	})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return out
}

// seedComment inserts a comment inside its own Update and returns it.
func seedComment(t *testing.T, s *Store, author, post string) model.Comment {
	t.Helper()
	var out model.Comment
	err := s.Update(context.Background(), func(tx *Tx) error {
		id, err := tx.NewID(context.Background(), model.KindComment)
		if err != nil {
			return err
		}
		out, err = tx.InsertComment(context.Background(), model.NewComment(id, "text "+id, author, post))
		return err
	})
	if err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return out
}

// count returns the number of rows of kind.
func count(t *testing.T, s *Store, kind model.Kind) int {
	t.Helper()
	var n int
	err := s.View(context.Background(), func(tx *Tx) error {
		var err error
		n, err = tx.Count(context.Background(), kind)
		return err
	})
	if err != nil {
		t.Fatalf("count %s: %v", kind, err)
	}
	return n
}
