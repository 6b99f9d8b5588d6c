package engine

import (
	"context"
	"log/slog"

	"github.com/ayushgw/graphql-basics/internal/model"
	"github.com/ayushgw/graphql-basics/internal/store"
)

// PostUpdate is the result of UpdatePost: the post as stored afterwards
// and the snapshot taken before the patch was applied.
type PostUpdate struct {
	Post     model.Post
	Previous model.Post
}

// CreatePost inserts a new post.
// Fails with VALIDATION if the author does not exist.
func (e *Engine) CreatePost(ctx context.Context, in model.NewPostInput) (model.Post, error) {
	var out model.Post
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		if _, found, err := tx.FindUser(ctx, in.Author); err != nil {
			return err
		} else if !found {
			return ValidationError(model.KindUser, in.Author, "author does not exist")
		}

		id, err := tx.NewID(ctx, model.KindPost)
		if err != nil {
			return err
		}
		out, err = tx.InsertPost(ctx, model.NewPost(id, in.Title, in.Body, in.Published, in.Author))
		if err != nil {
			return err
		}

		e.publishPost(tx, nil, &out)
		return nil
	})
	if err != nil {
		return model.Post{}, err
	}

	slog.Debug("post created", "id", out.ID, "published", out.Published)
	return out, nil
}

// UpdatePost applies the supplied fields of patch to a post. An empty
// patch writes nothing and publishes nothing.
// Fails with NOT_FOUND if the post does not exist.
func (e *Engine) UpdatePost(ctx context.Context, id string, patch model.PostPatch) (PostUpdate, error) {
	var out PostUpdate
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		pre, found, err := tx.FindPost(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return NotFoundError(model.KindPost, id)
		}
		if patch.Empty() {
			out = PostUpdate{Post: pre, Previous: pre}
			return nil
		}

		post, _, err := tx.UpdatePost(ctx, id, patch.Apply)
		if err != nil {
			return err
		}

		out = PostUpdate{Post: post, Previous: pre}
		e.publishPost(tx, &pre, &post)
		return nil
	})
	if err != nil {
		return PostUpdate{}, err
	}

	slog.Debug("post updated",
		"id", id,
		"was_published", out.Previous.Published,
		"published", out.Post.Published)
	return out, nil
}

// DeletePost removes a post and every comment on it. The returned post
// carries its pre-deletion published flag.
//
// Fails with NOT_FOUND if the post does not exist.
func (e *Engine) DeletePost(ctx context.Context, id string) (model.Post, error) {
	var (
		out      model.Post
		comments int
	)
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		p, found, err := tx.FindPost(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return NotFoundError(model.KindPost, id)
		}

		comments, err = e.removePost(ctx, tx, id)
		out = p
		return err
	})
	if err != nil {
		return model.Post{}, err
	}

	slog.Debug("post deleted", "id", id, "comments", comments)
	return out, nil
}

// removePost deletes the comments on a post, then the post, and schedules
// the post's deletion event. It returns how many comments were removed.
func (e *Engine) removePost(ctx context.Context, tx *store.Tx, id string) (int, error) {
	comments, err := tx.RemoveCommentsByPost(ctx, id)
	if err != nil {
		return 0, err
	}

	removed, _, err := tx.RemovePost(ctx, id)
	if err != nil {
		return 0, err
	}

	e.publishPost(tx, &removed, nil)
	return len(comments), nil
}
