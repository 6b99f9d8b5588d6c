package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushgw/graphql-basics/internal/engine"
	"github.com/ayushgw/graphql-basics/internal/pubsub"
	"github.com/ayushgw/graphql-basics/internal/relation"
	"github.com/ayushgw/graphql-basics/internal/store"
)

func setup(t *testing.T) (*engine.Engine, *relation.Resolver) {
	t.Helper()
	s, err := store.Open(context.Background(), store.WithIDGenerator(store.NewSequenceGenerator("id")))
	require.NoError(t, err)
	b := pubsub.New()
	t.Cleanup(func() {
		_ = b.Close()
		_ = s.Close()
	})
	return engine.New(s, b), relation.New(s)
}

func TestLoad_Demo(t *testing.T) {
	f, err := Load("testdata/demo.yaml")
	require.NoError(t, err)

	assert.Len(t, f.Users, 3)
	assert.Len(t, f.Posts, 2)
	assert.Len(t, f.Comments, 2)
	require.NotNil(t, f.Users[0].Age)
	assert.Equal(t, 27, *f.Users[0].Age)
	assert.Nil(t, f.Users[1].Age)
}

func TestApply_Demo(t *testing.T) {
	eng, r := setup(t)
	ctx := context.Background()

	f, err := Load("testdata/demo.yaml")
	require.NoError(t, err)
	refs, err := Apply(ctx, eng, f)
	require.NoError(t, err)

	assert.Equal(t, Refs{
		"ayush":  "id-0001",
		"bruce":  "id-0002",
		"barry":  "id-0003",
		"flash":  "id-0004",
		"gotham": "id-0005",
		"first":  "id-0006",
	}, refs)

	author, found, err := r.AuthorOfPost(ctx, refs["flash"])
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Barry Allen", author.Name)

	comments, err := r.CommentsOfPost(ctx, refs["flash"])
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestApply_IntegrityFailures(t *testing.T) {
	tests := []struct {
		file  string
		check func(error) bool
	}{
		{"testdata/duplicate_email.yaml", engine.IsConflict},
		{"testdata/hidden_comment.yaml", engine.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			eng, _ := setup(t)
			f, err := Load(tt.file)
			require.NoError(t, err)

			_, err = Apply(context.Background(), eng, f)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("users:\n  - name: A\n    emial: a@x.com\n"))
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestParse_RejectsDuplicateRefs(t *testing.T) {
	_, err := Parse([]byte(`
users:
  - {ref: x, name: A, email: a@x.com}
posts:
  - {ref: x, title: t, body: b, published: true, author: x}
`))
	assert.ErrorContains(t, err, `duplicate ref "x"`)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Users)
}
