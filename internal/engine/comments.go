package engine

import (
	"context"
	"log/slog"

	"github.com/ayushgw/graphql-basics/internal/model"
	"github.com/ayushgw/graphql-basics/internal/store"
)

// CreateComment inserts a new comment.
//
// Fails with VALIDATION if the author does not exist, or if the post does
// not exist or is not published.
func (e *Engine) CreateComment(ctx context.Context, in model.NewCommentInput) (model.Comment, error) {
	var out model.Comment
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		if _, found, err := tx.FindUser(ctx, in.Author); err != nil {
			return err
		} else if !found {
			return ValidationError(model.KindUser, in.Author, "author does not exist")
		}

		if err := requirePublished(ctx, tx, in.Post); err != nil {
			return err
		}

		id, err := tx.NewID(ctx, model.KindComment)
		if err != nil {
			return err
		}
		out, err = tx.InsertComment(ctx, model.NewComment(id, in.Text, in.Author, in.Post))
		if err != nil {
			return err
		}

		e.publishComment(tx, nil, &out)
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}

	slog.Debug("comment created", "id", out.ID, "post", out.Post)
	return out, nil
}

// UpdateComment applies the supplied fields of patch to a comment. An
// empty patch writes nothing.
// Fails with NOT_FOUND if the comment does not exist.
func (e *Engine) UpdateComment(ctx context.Context, id string, patch model.CommentPatch) (model.Comment, error) {
	var out model.Comment
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		pre, found, err := tx.FindComment(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return NotFoundError(model.KindComment, id)
		}
		if patch.Empty() {
			out = pre
			return nil
		}

		out, _, err = tx.UpdateComment(ctx, id, patch.Apply)
		if err != nil {
			return err
		}

		e.publishComment(tx, &pre, &out)
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}

	slog.Debug("comment updated", "id", id)
	return out, nil
}

// DeleteComment removes a comment.
// Fails with NOT_FOUND if the comment does not exist.
func (e *Engine) DeleteComment(ctx context.Context, id string) (model.Comment, error) {
	var out model.Comment
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		removed, found, err := tx.RemoveComment(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return NotFoundError(model.KindComment, id)
		}

		out = removed
		e.publishComment(tx, &removed, nil)
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}

	slog.Debug("comment deleted", "id", id)
	return out, nil
}

// requirePublished fails with VALIDATION unless postID names a published post.
func requirePublished(ctx context.Context, tx *store.Tx, postID string) error {
	p, found, err := tx.FindPost(ctx, postID)
	if err != nil {
		return err
	}
	if !found {
		return ValidationError(model.KindPost, postID, "post does not exist")
	}
	if !p.Published {
		return ValidationError(model.KindPost, postID, "post is not published")
	}
	return nil
}
