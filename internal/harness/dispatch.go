package harness

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/ayushgw/graphql-basics/internal/model"
)

// dispatch runs one operation against the engine or the resolver.
func (h *Harness) dispatch(ctx context.Context, op string, args map[string]any) (outcome, error) {
	a := argReader{args: args}

	switch op {
	case OpCreateUser:
		if err := a.allow("name", "email", "age"); err != nil {
			return outcome{}, err
		}
		in := model.NewUserInput{Name: a.str("name"), Email: a.str("email"), Age: a.optInt("age")}
		if a.err != nil {
			return outcome{}, a.err
		}
		u, err := h.engine.CreateUser(ctx, in)
		return entityOutcome(u, u.ID, err)

	case OpUpdateUser:
		if err := a.allow("id", "name", "email", "age", "clear_age"); err != nil {
			return outcome{}, err
		}
		id := a.str("id")
		patch := model.UserPatch{Name: a.optStr("name"), Email: a.optStr("email"), Age: a.optInt("age")}
		if clear := a.optBool("clear_age"); clear != nil {
			patch.ClearAge = *clear
		}
		if a.err != nil {
			return outcome{}, a.err
		}
		u, err := h.engine.UpdateUser(ctx, id, patch)
		return entityOutcome(u, u.ID, err)

	case OpDeleteUser:
		id, err := a.only("id")
		if err != nil {
			return outcome{}, err
		}
		u, err := h.engine.DeleteUser(ctx, id)
		return entityOutcome(u, u.ID, err)

	case OpCreatePost:
		if err := a.allow("title", "body", "published", "author"); err != nil {
			return outcome{}, err
		}
		in := model.NewPostInput{Title: a.str("title"), Body: a.str("body"), Author: a.str("author")}
		if published := a.optBool("published"); published != nil {
			in.Published = *published
		}
		if a.err != nil {
			return outcome{}, a.err
		}
		p, err := h.engine.CreatePost(ctx, in)
		return entityOutcome(p, p.ID, err)

	case OpUpdatePost:
		if err := a.allow("id", "title", "body", "published"); err != nil {
			return outcome{}, err
		}
		id := a.str("id")
		patch := model.PostPatch{Title: a.optStr("title"), Body: a.optStr("body"), Published: a.optBool("published")}
		if a.err != nil {
			return outcome{}, a.err
		}
		up, err := h.engine.UpdatePost(ctx, id, patch)
		return entityOutcome(up.Post, up.Post.ID, err)

	case OpDeletePost:
		id, err := a.only("id")
		if err != nil {
			return outcome{}, err
		}
		p, err := h.engine.DeletePost(ctx, id)
		return entityOutcome(p, p.ID, err)

	case OpCreateComment:
		if err := a.allow("text", "author", "post"); err != nil {
			return outcome{}, err
		}
		in := model.NewCommentInput{Text: a.str("text"), Author: a.str("author"), Post: a.str("post")}
		if a.err != nil {
			return outcome{}, a.err
		}
		c, err := h.engine.CreateComment(ctx, in)
		return entityOutcome(c, c.ID, err)

	case OpUpdateComment:
		if err := a.allow("id", "text"); err != nil {
			return outcome{}, err
		}
		id := a.str("id")
		patch := model.CommentPatch{Text: a.optStr("text")}
		if a.err != nil {
			return outcome{}, a.err
		}
		c, err := h.engine.UpdateComment(ctx, id, patch)
		return entityOutcome(c, c.ID, err)

	case OpDeleteComment:
		id, err := a.only("id")
		if err != nil {
			return outcome{}, err
		}
		c, err := h.engine.DeleteComment(ctx, id)
		return entityOutcome(c, c.ID, err)

	case OpSubscribePosts:
		if err := a.allow(); err != nil {
			return outcome{}, err
		}
		sub, err := h.engine.SubscribePosts(ctx)
		if err != nil {
			return outcome{}, err
		}
		return outcome{result: map[string]any{"topic": sub.Topic()}, sub: sub}, nil

	case OpSubscribeComments:
		postID, err := a.only("post")
		if err != nil {
			return outcome{}, err
		}
		sub, err := h.engine.SubscribeComments(ctx, postID)
		if err != nil {
			return outcome{}, err
		}
		return outcome{result: map[string]any{"topic": sub.Topic()}, sub: sub}, nil

	case OpUnsubscribe:
		name, err := a.only("subscription")
		if err != nil {
			return outcome{}, err
		}
		if err := h.unsubscribe(name); err != nil {
			return outcome{}, err
		}
		return outcome{result: map[string]any{"subscription": name}}, nil
	}

	return h.dispatchRead(ctx, op, a)
}

func (h *Harness) dispatchRead(ctx context.Context, op string, a argReader) (outcome, error) {
	switch op {
	case OpUser:
		id, err := a.only("id")
		if err != nil {
			return outcome{}, err
		}
		u, found, err := h.resolver.User(ctx, id)
		return foundOutcome(u, found, err)

	case OpPost:
		id, err := a.only("id")
		if err != nil {
			return outcome{}, err
		}
		p, found, err := h.resolver.Post(ctx, id)
		return foundOutcome(p, found, err)

	case OpComment:
		id, err := a.only("id")
		if err != nil {
			return outcome{}, err
		}
		c, found, err := h.resolver.Comment(ctx, id)
		return foundOutcome(c, found, err)

	case OpUsers:
		if err := a.allow("query"); err != nil {
			return outcome{}, err
		}
		query := a.optStr("query")
		if a.err != nil {
			return outcome{}, a.err
		}
		users, err := h.resolver.Users(ctx, deref(query))
		return listOutcome(users, err)

	case OpPosts:
		if err := a.allow("query"); err != nil {
			return outcome{}, err
		}
		query := a.optStr("query")
		if a.err != nil {
			return outcome{}, a.err
		}
		posts, err := h.resolver.Posts(ctx, deref(query))
		return listOutcome(posts, err)

	case OpComments:
		if err := a.allow(); err != nil {
			return outcome{}, err
		}
		comments, err := h.resolver.Comments(ctx)
		return listOutcome(comments, err)

	case OpPostsOfUser:
		id, err := a.only("user")
		if err != nil {
			return outcome{}, err
		}
		posts, err := h.resolver.PostsOfUser(ctx, id)
		return listOutcome(posts, err)

	case OpCommentsOfUser:
		id, err := a.only("user")
		if err != nil {
			return outcome{}, err
		}
		comments, err := h.resolver.CommentsOfUser(ctx, id)
		return listOutcome(comments, err)

	case OpCommentsOfPost:
		id, err := a.only("post")
		if err != nil {
			return outcome{}, err
		}
		comments, err := h.resolver.CommentsOfPost(ctx, id)
		return listOutcome(comments, err)

	case OpAuthorOfPost:
		id, err := a.only("post")
		if err != nil {
			return outcome{}, err
		}
		u, found, err := h.resolver.AuthorOfPost(ctx, id)
		return foundOutcome(u, found, err)

	case OpAuthorOfComment:
		id, err := a.only("comment")
		if err != nil {
			return outcome{}, err
		}
		u, found, err := h.resolver.AuthorOfComment(ctx, id)
		return foundOutcome(u, found, err)

	case OpPostOfComment:
		id, err := a.only("comment")
		if err != nil {
			return outcome{}, err
		}
		p, found, err := h.resolver.PostOfComment(ctx, id)
		return foundOutcome(p, found, err)
	}

	return outcome{}, fmt.Errorf("unknown op %q", op)
}

func entityOutcome[T canonicalMapper](v T, id string, err error) (outcome, error) {
	if err != nil {
		return outcome{}, err
	}
	return outcome{result: v.CanonicalMap(), ref: id}, nil
}

func listOutcome[T canonicalMapper](items []T, err error) (outcome, error) {
	if err != nil {
		return outcome{}, err
	}
	return outcome{result: canonicalList(items)}, nil
}

func foundOutcome[T canonicalMapper](v T, found bool, err error) (outcome, error) {
	if err != nil {
		return outcome{}, err
	}
	return outcome{result: canonicalFound(v, found)}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// argReader extracts typed arguments. The first type error sticks in err.
type argReader struct {
	args map[string]any
	err  error
}

// allow rejects any argument not named in keys.
func (a *argReader) allow(keys ...string) error {
	var unknown []string
	for k := range a.args {
		if !slices.Contains(keys, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown args %v", unknown)
	}
	return nil
}

// only reads the single required string argument key.
func (a *argReader) only(key string) (string, error) {
	if err := a.allow(key); err != nil {
		return "", err
	}
	v := a.str(key)
	return v, a.err
}

func (a *argReader) str(key string) string {
	v, ok := a.args[key]
	if !ok {
		a.fail(fmt.Errorf("missing required arg %q", key))
		return ""
	}
	s, ok := v.(string)
	if !ok {
		a.fail(fmt.Errorf("arg %q: expected string, got %T", key, v))
	}
	return s
}

func (a *argReader) optStr(key string) *string {
	v, ok := a.args[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		a.fail(fmt.Errorf("arg %q: expected string, got %T", key, v))
		return nil
	}
	return &s
}

func (a *argReader) optInt(key string) *int {
	v, ok := a.args[key]
	if !ok {
		return nil
	}
	n, ok := v.(int)
	if !ok {
		a.fail(fmt.Errorf("arg %q: expected integer, got %T", key, v))
		return nil
	}
	return &n
}

func (a *argReader) optBool(key string) *bool {
	v, ok := a.args[key]
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		a.fail(fmt.Errorf("arg %q: expected bool, got %T", key, v))
		return nil
	}
	return &b
}

func (a *argReader) fail(err error) {
	if a.err == nil {
		a.err = err
	}
}
