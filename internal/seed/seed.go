// Package seed loads YAML fixtures into a store.
//
// Fixtures go through the engine like any other client, so they are held
// to the same integrity rules: a fixture with a duplicate email, an
// unknown author, or a comment on a hidden post fails to load.
//
// Entities are named by fixture-local refs since real ids are generated:
//
//	users:
//	  - ref: ayush
//	    name: Ayush Gosi
//	    email: ayush@example.com
//	posts:
//	  - ref: flash
//	    title: How fast is Flash?
//	    body: Could surpass the speed of light!
//	    published: true
//	    author: ayush
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ayushgw/graphql-basics/internal/engine"
	"github.com/ayushgw/graphql-basics/internal/model"
)

// Fixture is a set of entities to create, in order: users, posts, comments.
type Fixture struct {
	Users    []UserFixture    `yaml:"users"`
	Posts    []PostFixture    `yaml:"posts"`
	Comments []CommentFixture `yaml:"comments"`
}

// UserFixture describes one user.
type UserFixture struct {
	Ref   string `yaml:"ref"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Age   *int   `yaml:"age,omitempty"`
}

// PostFixture describes one post. Author is a user ref.
type PostFixture struct {
	Ref       string `yaml:"ref"`
	Title     string `yaml:"title"`
	Body      string `yaml:"body"`
	Published bool   `yaml:"published"`
	Author    string `yaml:"author"`
}

// CommentFixture describes one comment. Author and Post are refs.
type CommentFixture struct {
	Ref    string `yaml:"ref"`
	Text   string `yaml:"text"`
	Author string `yaml:"author"`
	Post   string `yaml:"post"`
}

// Refs maps fixture refs to the ids the store assigned.
type Refs map[string]string

// Load reads and parses the fixture file at path.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture, rejecting unknown fields and duplicate refs.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	seen := make(map[string]bool)
	check := func(kind, ref string) error {
		if ref == "" {
			return nil
		}
		if seen[ref] {
			return fmt.Errorf("duplicate ref %q (%s)", ref, kind)
		}
		seen[ref] = true
		return nil
	}

	for _, u := range f.Users {
		if err := check("user", u.Ref); err != nil {
			return err
		}
	}
	for _, p := range f.Posts {
		if err := check("post", p.Ref); err != nil {
			return err
		}
	}
	for _, c := range f.Comments {
		if err := check("comment", c.Ref); err != nil {
			return err
		}
	}
	return nil
}

// Apply creates every entity of f through eng and returns the assigned ids.
//
// A ref that names no earlier fixture entity is passed through unchanged,
// so a fixture may also point at ids that already exist. Apply stops at
// the first failure; entities created before it remain.
func Apply(ctx context.Context, eng *engine.Engine, f *Fixture) (Refs, error) {
	refs := make(Refs)
	resolve := func(ref string) string {
		if id, ok := refs[ref]; ok {
			return id
		}
		return ref
	}

	for i, u := range f.Users {
		created, err := eng.CreateUser(ctx, model.NewUserInput{Name: u.Name, Email: u.Email, Age: u.Age})
		if err != nil {
			return refs, fmt.Errorf("users[%d]: %w", i, err)
		}
		refs.add(u.Ref, created.ID)
	}

	for i, p := range f.Posts {
		created, err := eng.CreatePost(ctx, model.NewPostInput{
			Title:     p.Title,
			Body:      p.Body,
			Published: p.Published,
			Author:    resolve(p.Author),
		})
		if err != nil {
			return refs, fmt.Errorf("posts[%d]: %w", i, err)
		}
		refs.add(p.Ref, created.ID)
	}

	for i, c := range f.Comments {
		created, err := eng.CreateComment(ctx, model.NewCommentInput{
			Text:   c.Text,
			Author: resolve(c.Author),
			Post:   resolve(c.Post),
		})
		if err != nil {
			return refs, fmt.Errorf("comments[%d]: %w", i, err)
		}
		refs.add(c.Ref, created.ID)
	}

	slog.Info("fixture loaded",
		"users", len(f.Users),
		"posts", len(f.Posts),
		"comments", len(f.Comments))
	return refs, nil
}

func (r Refs) add(ref, id string) {
	if ref != "" {
		r[ref] = id
	}
}
