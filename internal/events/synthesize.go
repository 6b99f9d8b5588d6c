package events

import "github.com/ayushgw/graphql-basics/internal/model"

// ForPost derives the event for a post transition.
//
// pre is nil for a creation and post is nil for a deletion. ok is false
// when the transition is invisible to subscribers:
//
//	pre        post       event
//	-          published  CREATED(post)
//	-          hidden     none
//	published  -          DELETED(pre)
//	hidden     -          none
//	hidden     published  CREATED(post)
//	published  hidden     DELETED(pre)
//	published  published  UPDATED(post), if any field changed
//	hidden     hidden     none
//
// Unpublishing reports the pre-state so the hidden content never leaks.
func ForPost(pre, post *model.Post) (Event, bool) {
	prePublished := pre != nil && pre.Published
	postPublished := post != nil && post.Published

	switch {
	case !prePublished && postPublished:
		return postEvent(Created, post), true
	case prePublished && !postPublished:
		return postEvent(Deleted, pre), true
	case prePublished && postPublished:
		if *pre == *post {
			return Event{}, false
		}
		return postEvent(Updated, post), true
	default:
		return Event{}, false
	}
}

// ForComment derives the event for a comment transition.
//
// Only creation is observable; comment updates and deletions emit
// nothing. Comments need a published post to exist at all, so there is no
// visibility gate.
func ForComment(pre, post *model.Comment) (Event, bool) {
	if pre != nil || post == nil {
		return Event{}, false
	}
	c := post.Clone()
	return Event{
		Topic:    CommentTopic(c.Post),
		Mutation: Created,
		Comment:  &c,
	}, true
}

func postEvent(m Mutation, p *model.Post) Event {
	c := p.Clone()
	return Event{Topic: PostTopic, Mutation: m, Post: &c}
}
