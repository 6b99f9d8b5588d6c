// Package model defines the entity values shared by every layer of the
// graph data store: users, posts and comments, the patches that mutate them,
// and the canonical JSON form used for golden traces.
//
// This package contains value types only. All other internal packages
// import model; model imports nothing internal.
//
// Key design constraints:
//   - Relations are foreign-key strings (Post.Author, Comment.Post), never
//     embedded collections
//   - Values handed across package boundaries are copies (see Clone)
//   - All JSON tags use snake_case
package model
