package engine

import (
	"context"
	"log/slog"

	"github.com/ayushgw/graphql-basics/internal/model"
	"github.com/ayushgw/graphql-basics/internal/store"
)

// CreateUser inserts a new user.
// Fails with CONFLICT if the email is taken.
func (e *Engine) CreateUser(ctx context.Context, in model.NewUserInput) (model.User, error) {
	var out model.User
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		if _, taken, err := tx.UserByEmail(ctx, in.Email); err != nil {
			return err
		} else if taken {
			return ConflictError(in.Email)
		}

		id, err := tx.NewID(ctx, model.KindUser)
		if err != nil {
			return err
		}
		out, err = tx.InsertUser(ctx, model.NewUser(id, in.Name, in.Email, in.Age))
		return err
	})
	if err != nil {
		return model.User{}, err
	}

	slog.Debug("user created", "id", out.ID)
	return out, nil
}

// UpdateUser applies the supplied fields of patch to a user.
//
// Fails with NOT_FOUND if the user does not exist, and with CONFLICT if
// patch supplies an email held by a different user. Re-supplying the
// user's own email is allowed. An empty patch returns the user as stored.
func (e *Engine) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	var pre, out model.User
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		var (
			found bool
			err   error
		)
		pre, found, err = tx.FindUser(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return NotFoundError(model.KindUser, id)
		}
		if patch.Empty() {
			out = pre
			return nil
		}

		if patch.Email != nil {
			holder, taken, err := tx.UserByEmail(ctx, *patch.Email)
			if err != nil {
				return err
			}
			if taken && holder.ID != id {
				return ConflictError(*patch.Email)
			}
		}

		out, _, err = tx.UpdateUser(ctx, id, patch.Apply)
		return err
	})
	if err != nil {
		return model.User{}, err
	}

	slog.Debug("user updated", "id", id, "changed", !pre.Equal(out))
	return out, nil
}

// DeleteUser removes a user together with everything that references it:
// the user's posts, every comment on those posts, and the user's comments
// on other posts. Published posts removed this way publish DELETED.
//
// Fails with NOT_FOUND if the user does not exist.
func (e *Engine) DeleteUser(ctx context.Context, id string) (model.User, error) {
	var (
		out             model.User
		removedPosts    int
		removedComments int
	)
	err := e.store.Update(ctx, func(tx *store.Tx) error {
		if _, found, err := tx.FindUser(ctx, id); err != nil {
			return err
		} else if !found {
			return NotFoundError(model.KindUser, id)
		}

		posts, err := tx.PostsByAuthor(ctx, id)
		if err != nil {
			return err
		}
		for _, p := range posts {
			n, err := e.removePost(ctx, tx, p.ID)
			if err != nil {
				return err
			}
			removedPosts++
			removedComments += n
		}

		stray, err := tx.RemoveCommentsByAuthor(ctx, id)
		if err != nil {
			return err
		}
		removedComments += len(stray)

		out, _, err = tx.RemoveUser(ctx, id)
		return err
	})
	if err != nil {
		return model.User{}, err
	}

	slog.Debug("user deleted",
		"id", id,
		"posts", removedPosts,
		"comments", removedComments)
	return out, nil
}
