package model

// NewUserInput carries the fields of a user to be created.
type NewUserInput struct {
	Name  string
	Email string
	Age   *int
}

// NewPostInput carries the fields of a post to be created.
type NewPostInput struct {
	Title     string
	Body      string
	Published bool
	Author    string
}

// NewCommentInput carries the fields of a comment to be created.
type NewCommentInput struct {
	Text   string
	Author string
	Post   string
}

// UserPatch is a partial user update. A nil field is left untouched.
// ClearAge removes the age and takes precedence over Age.
type UserPatch struct {
	Name     *string
	Email    *string
	Age      *int
	ClearAge bool
}

// Apply writes the supplied fields onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	switch {
	case p.ClearAge:
		u.Age = nil
	case p.Age != nil:
		u.Age = cloneInt(p.Age)
	}
}

// Empty reports whether the patch supplies no field.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil && !p.ClearAge
}

// PostPatch is a partial post update. A nil field is left untouched.
type PostPatch struct {
	Title     *string
	Body      *string
	Published *bool
}

// Apply writes the supplied fields onto p.
func (p PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Body != nil {
		post.Body = *p.Body
	}
	if p.Published != nil {
		post.Published = *p.Published
	}
}

// Empty reports whether the patch supplies no field.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Body == nil && p.Published == nil
}

// CommentPatch is a partial comment update. A nil field is left untouched.
type CommentPatch struct {
	Text *string
}

// Apply writes the supplied fields onto c.
func (p CommentPatch) Apply(c *Comment) {
	if p.Text != nil {
		c.Text = *p.Text
	}
}

// Empty reports whether the patch supplies no field.
func (p CommentPatch) Empty() bool {
	return p.Text == nil
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}

// BoolPtr returns a pointer to a copy of b.
func BoolPtr(b bool) *bool {
	return &b
}
