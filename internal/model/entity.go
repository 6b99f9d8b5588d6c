package model

// User is a registered author. Email is unique across all users.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age,omitempty"`
}

// Post is authored by exactly one user. Published gates whether the post
// is visible to subscribers.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	Author    string `json:"author"`
}

// Comment is written by one user on one post.
type Comment struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Post   string `json:"post"`
}

// NewUser builds a User from named fields. age may be nil.
// The age value is copied so the caller keeps ownership of its pointer.
func NewUser(id, name, email string, age *int) User {
	return User{
		ID:    id,
		Name:  name,
		Email: email,
		Age:   cloneInt(age),
	}
}

// NewPost builds a Post from named fields.
func NewPost(id, title, body string, published bool, author string) Post {
	return Post{
		ID:        id,
		Title:     title,
		Body:      body,
		Published: published,
		Author:    author,
	}
}

// NewComment builds a Comment from named fields.
func NewComment(id, text, author, post string) Comment {
	return Comment{
		ID:     id,
		Text:   text,
		Author: author,
		Post:   post,
	}
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	u.Age = cloneInt(u.Age)
	return u
}

// Clone returns a copy of p. Post holds no reference fields.
func (p Post) Clone() Post {
	return p
}

// Clone returns a copy of c. Comment holds no reference fields.
func (c Comment) Clone() Comment {
	return c
}

// Equal reports whether two users hold the same field values.
func (u User) Equal(other User) bool {
	if u.ID != other.ID || u.Name != other.Name || u.Email != other.Email {
		return false
	}
	switch {
	case u.Age == nil && other.Age == nil:
		return true
	case u.Age == nil || other.Age == nil:
		return false
	default:
		return *u.Age == *other.Age
	}
}

// IntPtr returns a pointer to a copy of n.
func IntPtr(n int) *int {
	return &n
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
