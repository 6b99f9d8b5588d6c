package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushgw/graphql-basics/internal/model"
)

func TestFindUser_NotFound(t *testing.T) {
	s := createTestStore(t)

	err := s.View(context.Background(), func(tx *Tx) error {
		_, found, err := tx.FindUser(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, found)
		return nil
	})
	require.NoError(t, err)
}

func TestFindUser_AgeRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	var id string
	require.NoError(t, s.Update(ctx, func(tx *Tx) error {
		var err error
		id, err = tx.NewID(ctx, model.KindUser)
		require.NoError(t, err)
		_, err = tx.InsertUser(ctx, model.NewUser(id, "Ann", "a@x.com", model.IntPtr(27)))
		return err
	}))

	require.NoError(t, s.View(ctx, func(tx *Tx) error {
		u, found, err := tx.FindUser(ctx, id)
		require.NoError(t, err)
		require.True(t, found)
		require.NotNil(t, u.Age)
		assert.Equal(t, 27, *u.Age)
		return nil
	}))
}

func TestListUsers_InsertionOrder(t *testing.T) {
	s := createTestStore(t)
	seedUser(t, s, "C", "c@x.com")
	seedUser(t, s, "A", "a@x.com")
	seedUser(t, s, "B", "b@x.com")

	require.NoError(t, s.View(context.Background(), func(tx *Tx) error {
		users, err := tx.ListUsers(context.Background())
		require.NoError(t, err)
		names := make([]string, len(users))
		for i, u := range users {
			names[i] = u.Name
		}
		assert.Equal(t, []string{"C", "A", "B"}, names)
		return nil
	}))
}

func TestList_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)

	require.NoError(t, s.View(context.Background(), func(tx *Tx) error {
		posts, err := tx.ListPosts(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)

		comments, err := tx.CommentsByPost(context.Background(), "nope")
		require.NoError(t, err)
		assert.NotNil(t, comments)
		return nil
	}))
}

func TestForeignKeyScans(t *testing.T) {
	s := createTestStore(t)
	ann := seedUser(t, s, "Ann", "a@x.com")
	bob := seedUser(t, s, "Bob", "b@x.com")
	annPost := seedPost(t, s, ann.ID, true)
	bobPost := seedPost(t, s, bob.ID, true)
	c1 := seedComment(t, s, bob.ID, annPost.ID)
	c2 := seedComment(t, s, ann.ID, bobPost.ID)
	c3 := seedComment(t, s, ann.ID, annPost.ID)

	ctx := context.Background()
	require.NoError(t, s.View(ctx, func(tx *Tx) error {
		posts, err := tx.PostsByAuthor(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, []model.Post{annPost}, posts)

		byAnn, err := tx.CommentsByAuthor(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, []model.Comment{c2, c3}, byAnn)

		onAnnPost, err := tx.CommentsByPost(ctx, annPost.ID)
		require.NoError(t, err)
		assert.Equal(t, []model.Comment{c1, c3}, onAnnPost)

		u, found, err := tx.UserByEmail(ctx, "b@x.com")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, bob.ID, u.ID)
		return nil
	}))
}

func TestCount_UnknownKind(t *testing.T) {
	s := createTestStore(t)

	err := s.View(context.Background(), func(tx *Tx) error {
		_, err := tx.Count(context.Background(), model.Kind("tags"))
		return err
	})
	assert.ErrorContains(t, err, "unknown entity kind")
}
