package store

import (
	"context"
	"fmt"

	"github.com/ayushgw/graphql-basics/internal/model"
)

// InsertUser stores u and returns the stored copy.
// u.ID must come from NewID within the same transaction.
func (t *Tx) InsertUser(ctx context.Context, u model.User) (model.User, error) {
	if err := t.checkWritable("insert user"); err != nil {
		return model.User{}, err
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO users (id, name, email, age, seq)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Email, nullableAge(u.Age), t.store.clock.Next())
	if err != nil {
		return model.User{}, fmt.Errorf("insert user %s: %w", u.ID, err)
	}
	return u.Clone(), nil
}

// InsertPost stores p and returns the stored copy.
func (t *Tx) InsertPost(ctx context.Context, p model.Post) (model.Post, error) {
	if err := t.checkWritable("insert post"); err != nil {
		return model.Post{}, err
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO posts (id, title, body, published, author, seq)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Title, p.Body, p.Published, p.Author, t.store.clock.Next())
	if err != nil {
		return model.Post{}, fmt.Errorf("insert post %s: %w", p.ID, err)
	}
	return p, nil
}

// InsertComment stores c and returns the stored copy.
func (t *Tx) InsertComment(ctx context.Context, c model.Comment) (model.Comment, error) {
	if err := t.checkWritable("insert comment"); err != nil {
		return model.Comment{}, err
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO comments (id, text, author, post, seq)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.Text, c.Author, c.Post, t.store.clock.Next())
	if err != nil {
		return model.Comment{}, fmt.Errorf("insert comment %s: %w", c.ID, err)
	}
	return c, nil
}

// UpdateUser applies mutate to a copy of the stored user and writes it back.
// The id is immutable; any change mutate makes to it is discarded.
// found is false (and mutate is not called) if the user does not exist.
func (t *Tx) UpdateUser(ctx context.Context, id string, mutate func(*model.User)) (model.User, bool, error) {
	if err := t.checkWritable("update user"); err != nil {
		return model.User{}, false, err
	}
	u, found, err := t.FindUser(ctx, id)
	if err != nil || !found {
		return model.User{}, found, err
	}

	mutate(&u)
	u.ID = id

	_, err = t.tx.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, age = ? WHERE id = ?
	`, u.Name, u.Email, nullableAge(u.Age), id)
	if err != nil {
		return model.User{}, false, fmt.Errorf("update user %s: %w", id, err)
	}
	return u, true, nil
}

// UpdatePost applies mutate to a copy of the stored post and writes it back.
// Author is a foreign key fixed at creation; changes to it are discarded.
func (t *Tx) UpdatePost(ctx context.Context, id string, mutate func(*model.Post)) (model.Post, bool, error) {
	if err := t.checkWritable("update post"); err != nil {
		return model.Post{}, false, err
	}
	p, found, err := t.FindPost(ctx, id)
	if err != nil || !found {
		return model.Post{}, found, err
	}

	author := p.Author
	mutate(&p)
	p.ID, p.Author = id, author

	_, err = t.tx.ExecContext(ctx, `
		UPDATE posts SET title = ?, body = ?, published = ? WHERE id = ?
	`, p.Title, p.Body, p.Published, id)
	if err != nil {
		return model.Post{}, false, fmt.Errorf("update post %s: %w", id, err)
	}
	return p, true, nil
}

// UpdateComment applies mutate to a copy of the stored comment and writes it back.
// Author and Post are foreign keys fixed at creation.
func (t *Tx) UpdateComment(ctx context.Context, id string, mutate func(*model.Comment)) (model.Comment, bool, error) {
	if err := t.checkWritable("update comment"); err != nil {
		return model.Comment{}, false, err
	}
	c, found, err := t.FindComment(ctx, id)
	if err != nil || !found {
		return model.Comment{}, found, err
	}

	author, post := c.Author, c.Post
	mutate(&c)
	c.ID, c.Author, c.Post = id, author, post

	_, err = t.tx.ExecContext(ctx, `UPDATE comments SET text = ? WHERE id = ?`, c.Text, id)
	if err != nil {
		return model.Comment{}, false, fmt.Errorf("update comment %s: %w", id, err)
	}
	return c, true, nil
}

// RemoveUser deletes the user row and returns it.
// Posts and comments referencing the user must already be gone; the
// foreign-key constraint rejects the delete otherwise.
func (t *Tx) RemoveUser(ctx context.Context, id string) (model.User, bool, error) {
	if err := t.checkWritable("remove user"); err != nil {
		return model.User{}, false, err
	}
	u, found, err := t.FindUser(ctx, id)
	if err != nil || !found {
		return model.User{}, found, err
	}
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
		return model.User{}, false, fmt.Errorf("remove user %s: %w", id, err)
	}
	return u, true, nil
}

// RemovePost deletes the post row and returns it.
// Comments on the post must already be gone.
func (t *Tx) RemovePost(ctx context.Context, id string) (model.Post, bool, error) {
	if err := t.checkWritable("remove post"); err != nil {
		return model.Post{}, false, err
	}
	p, found, err := t.FindPost(ctx, id)
	if err != nil || !found {
		return model.Post{}, found, err
	}
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id); err != nil {
		return model.Post{}, false, fmt.Errorf("remove post %s: %w", id, err)
	}
	return p, true, nil
}

// RemoveComment deletes the comment row and returns it.
func (t *Tx) RemoveComment(ctx context.Context, id string) (model.Comment, bool, error) {
	if err := t.checkWritable("remove comment"); err != nil {
		return model.Comment{}, false, err
	}
	c, found, err := t.FindComment(ctx, id)
	if err != nil || !found {
		return model.Comment{}, found, err
	}
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id); err != nil {
		return model.Comment{}, false, fmt.Errorf("remove comment %s: %w", id, err)
	}
	return c, true, nil
}

// RemoveCommentsByPost deletes every comment on postID and returns them.
func (t *Tx) RemoveCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	if err := t.checkWritable("remove comments by post"); err != nil {
		return nil, err
	}
	comments, err := t.CommentsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM comments WHERE post = ?", postID); err != nil {
		return nil, fmt.Errorf("remove comments by post %s: %w", postID, err)
	}
	return comments, nil
}

// RemoveCommentsByAuthor deletes every comment written by userID and returns them.
func (t *Tx) RemoveCommentsByAuthor(ctx context.Context, userID string) ([]model.Comment, error) {
	if err := t.checkWritable("remove comments by author"); err != nil {
		return nil, err
	}
	comments, err := t.CommentsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := t.tx.ExecContext(ctx, "DELETE FROM comments WHERE author = ?", userID); err != nil {
		return nil, fmt.Errorf("remove comments by author %s: %w", userID, err)
	}
	return comments, nil
}
