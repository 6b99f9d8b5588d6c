package relation

import (
	"context"

	"github.com/ayushgw/graphql-basics/internal/model"
	"github.com/ayushgw/graphql-basics/internal/store"
)

// Resolver answers relation and top-level read queries.
type Resolver struct {
	store *store.Store
}

// New creates a Resolver over s.
func New(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// PostsOfUser returns every post authored by userID.
func (r *Resolver) PostsOfUser(ctx context.Context, userID string) ([]model.Post, error) {
	return viewList(ctx, r.store, func(tx *store.Tx) ([]model.Post, error) {
		return tx.PostsByAuthor(ctx, userID)
	})
}

// CommentsOfUser returns every comment authored by userID.
func (r *Resolver) CommentsOfUser(ctx context.Context, userID string) ([]model.Comment, error) {
	return viewList(ctx, r.store, func(tx *store.Tx) ([]model.Comment, error) {
		return tx.CommentsByAuthor(ctx, userID)
	})
}

// CommentsOfPost returns every comment on postID.
func (r *Resolver) CommentsOfPost(ctx context.Context, postID string) ([]model.Comment, error) {
	return viewList(ctx, r.store, func(tx *store.Tx) ([]model.Comment, error) {
		return tx.CommentsByPost(ctx, postID)
	})
}

// AuthorOfPost returns the author of postID. found is false if the post
// does not exist or, against the store's invariants, its author is gone.
func (r *Resolver) AuthorOfPost(ctx context.Context, postID string) (model.User, bool, error) {
	return viewOne(ctx, r.store, func(tx *store.Tx) (model.User, bool, error) {
		p, found, err := tx.FindPost(ctx, postID)
		if err != nil || !found {
			return model.User{}, false, err
		}
		return tx.FindUser(ctx, p.Author)
	})
}

// AuthorOfComment returns the author of commentID.
func (r *Resolver) AuthorOfComment(ctx context.Context, commentID string) (model.User, bool, error) {
	return viewOne(ctx, r.store, func(tx *store.Tx) (model.User, bool, error) {
		c, found, err := tx.FindComment(ctx, commentID)
		if err != nil || !found {
			return model.User{}, false, err
		}
		return tx.FindUser(ctx, c.Author)
	})
}

// PostOfComment returns the post commentID was written on.
func (r *Resolver) PostOfComment(ctx context.Context, commentID string) (model.Post, bool, error) {
	return viewOne(ctx, r.store, func(tx *store.Tx) (model.Post, bool, error) {
		c, found, err := tx.FindComment(ctx, commentID)
		if err != nil || !found {
			return model.Post{}, false, err
		}
		return tx.FindPost(ctx, c.Post)
	})
}

// User returns the user with the given id.
func (r *Resolver) User(ctx context.Context, id string) (model.User, bool, error) {
	return viewOne(ctx, r.store, func(tx *store.Tx) (model.User, bool, error) {
		return tx.FindUser(ctx, id)
	})
}

// Post returns the post with the given id.
func (r *Resolver) Post(ctx context.Context, id string) (model.Post, bool, error) {
	return viewOne(ctx, r.store, func(tx *store.Tx) (model.Post, bool, error) {
		return tx.FindPost(ctx, id)
	})
}

// Comment returns the comment with the given id.
func (r *Resolver) Comment(ctx context.Context, id string) (model.Comment, bool, error) {
	return viewOne(ctx, r.store, func(tx *store.Tx) (model.Comment, bool, error) {
		return tx.FindComment(ctx, id)
	})
}

// Comments returns every comment.
func (r *Resolver) Comments(ctx context.Context) ([]model.Comment, error) {
	return viewList(ctx, r.store, func(tx *store.Tx) ([]model.Comment, error) {
		return tx.ListComments(ctx)
	})
}

func viewList[T any](ctx context.Context, s *store.Store, fn func(tx *store.Tx) ([]T, error)) ([]T, error) {
	var out []T
	err := s.View(ctx, func(tx *store.Tx) error {
		var err error
		out, err = fn(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func viewOne[T any](ctx context.Context, s *store.Store, fn func(tx *store.Tx) (T, bool, error)) (T, bool, error) {
	var (
		out   T
		found bool
	)
	err := s.View(ctx, func(tx *store.Tx) error {
		var err error
		out, found, err = fn(tx)
		return err
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return out, found, nil
}
