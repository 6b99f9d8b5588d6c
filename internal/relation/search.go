package relation

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ayushgw/graphql-basics/internal/model"
	"github.com/ayushgw/graphql-basics/internal/store"
)

// Users returns every user whose name contains query, ignoring case.
// An empty query returns all users.
func (r *Resolver) Users(ctx context.Context, query string) ([]model.User, error) {
	users, err := viewList(ctx, r.store, func(tx *store.Tx) ([]model.User, error) {
		return tx.ListUsers(ctx)
	})
	if err != nil || query == "" {
		return users, err
	}

	m := newMatcher(query)
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if m.match(u.Name) {
			out = append(out, u)
		}
	}
	return out, nil
}

// Posts returns every post whose title or body contains query, ignoring
// case. An empty query returns all posts.
func (r *Resolver) Posts(ctx context.Context, query string) ([]model.Post, error) {
	posts, err := viewList(ctx, r.store, func(tx *store.Tx) ([]model.Post, error) {
		return tx.ListPosts(ctx)
	})
	if err != nil || query == "" {
		return posts, err
	}

	m := newMatcher(query)
	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if m.match(p.Title) || m.match(p.Body) {
			out = append(out, p)
		}
	}
	return out, nil
}

// matcher does case-insensitive substring matching with Unicode case
// folding. A Caser keeps state and is not safe for concurrent use, so
// each query gets its own matcher.
type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(query string) *matcher {
	m := &matcher{fold: cases.Fold()}
	m.needle = m.fold.String(query)
	return m
}

func (m *matcher) match(s string) bool {
	return strings.Contains(m.fold.String(s), m.needle)
}
