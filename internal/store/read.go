package store

import (
	"context"
	"fmt"

	"github.com/ayushgw/graphql-basics/internal/model"
)

// FindUser returns the user with the given id.
// found is false if no such user exists.
func (t *Tx) FindUser(ctx context.Context, id string) (model.User, bool, error) {
	u, found, err := queryOne(ctx, t.tx, scanUser,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		return model.User{}, false, fmt.Errorf("find user %s: %w", id, err)
	}
	return u, found, nil
}

// FindPost returns the post with the given id.
func (t *Tx) FindPost(ctx context.Context, id string) (model.Post, bool, error) {
	p, found, err := queryOne(ctx, t.tx, scanPost,
		"SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	if err != nil {
		return model.Post{}, false, fmt.Errorf("find post %s: %w", id, err)
	}
	return p, found, nil
}

// FindComment returns the comment with the given id.
func (t *Tx) FindComment(ctx context.Context, id string) (model.Comment, bool, error) {
	c, found, err := queryOne(ctx, t.tx, scanComment,
		"SELECT "+commentColumns+" FROM comments WHERE id = ?", id)
	if err != nil {
		return model.Comment{}, false, fmt.Errorf("find comment %s: %w", id, err)
	}
	return c, found, nil
}

// UserByEmail returns the user holding email, if any.
func (t *Tx) UserByEmail(ctx context.Context, email string) (model.User, bool, error) {
	u, found, err := queryOne(ctx, t.tx, scanUser,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email)
	if err != nil {
		return model.User{}, false, fmt.Errorf("find user by email: %w", err)
	}
	return u, found, nil
}

// ListUsers returns all users in insertion order.
func (t *Tx) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := queryAll(ctx, t.tx, scanUser,
		"SELECT "+userColumns+" FROM users "+orderBySeq)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListPosts returns all posts in insertion order.
func (t *Tx) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := queryAll(ctx, t.tx, scanPost,
		"SELECT "+postColumns+" FROM posts "+orderBySeq)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListComments returns all comments in insertion order.
func (t *Tx) ListComments(ctx context.Context) ([]model.Comment, error) {
	comments, err := queryAll(ctx, t.tx, scanComment,
		"SELECT "+commentColumns+" FROM comments "+orderBySeq)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// PostsByAuthor returns every post whose author is userID.
func (t *Tx) PostsByAuthor(ctx context.Context, userID string) ([]model.Post, error) {
	posts, err := queryAll(ctx, t.tx, scanPost,
		"SELECT "+postColumns+" FROM posts WHERE author = ? "+orderBySeq, userID)
	if err != nil {
		return nil, fmt.Errorf("posts by author %s: %w", userID, err)
	}
	return posts, nil
}

// CommentsByAuthor returns every comment whose author is userID.
func (t *Tx) CommentsByAuthor(ctx context.Context, userID string) ([]model.Comment, error) {
	comments, err := queryAll(ctx, t.tx, scanComment,
		"SELECT "+commentColumns+" FROM comments WHERE author = ? "+orderBySeq, userID)
	if err != nil {
		return nil, fmt.Errorf("comments by author %s: %w", userID, err)
	}
	return comments, nil
}

// CommentsByPost returns every comment on postID.
func (t *Tx) CommentsByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	comments, err := queryAll(ctx, t.tx, scanComment,
		"SELECT "+commentColumns+" FROM comments WHERE post = ? "+orderBySeq, postID)
	if err != nil {
		return nil, fmt.Errorf("comments by post %s: %w", postID, err)
	}
	return comments, nil
}

// Count returns the number of live entities of kind.
func (t *Tx) Count(ctx context.Context, kind model.Kind) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var n int
	if err := t.tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

// tableFor maps a kind onto its table name. Only known kinds ever reach
// SQL text.
func tableFor(kind model.Kind) (string, error) {
	switch kind {
	case model.KindUser:
		return "users", nil
	case model.KindPost:
		return "posts", nil
	case model.KindComment:
		return "comments", nil
	}
	return "", fmt.Errorf("unknown entity kind %q", kind)
}
