package events

import (
	"strconv"

	"github.com/ayushgw/graphql-basics/internal/model"
)

// Mutation is the lifecycle verdict carried by an Event.
type Mutation string

const (
	Created Mutation = "CREATED"
	Updated Mutation = "UPDATED"
	Deleted Mutation = "DELETED"
)

// Topic names.
const (
	PostTopic    = "post"
	CounterTopic = "counter"

	commentTopicPrefix = "comment:"
)

// CommentTopic returns the topic carrying comments created on postID.
func CommentTopic(postID string) string {
	return commentTopicPrefix + postID
}

// Event is one delivery on a topic.
//
// Exactly one payload is set, matching the topic: Post for PostTopic,
// Comment for comment topics, Count for CounterTopic. Payloads are
// copies and may be retained by the receiver.
type Event struct {
	Topic    string
	Mutation Mutation
	Post     *model.Post
	Comment  *model.Comment
	Count    int64
}

// CounterTopicFor returns the private topic of the n-th count subscription.
func CounterTopicFor(n int64) string {
	return CounterTopic + ":" + strconv.FormatInt(n, 10)
}

// Counter builds the n-th tick of a count subscription.
func Counter(n int64) Event {
	return Event{Topic: CounterTopic, Count: n}
}

// CanonicalMap renders the event for canonical JSON traces.
func (e Event) CanonicalMap() map[string]any {
	m := map[string]any{"topic": e.Topic}
	if e.Mutation != "" {
		m["mutation"] = string(e.Mutation)
	}
	switch {
	case e.Post != nil:
		m["data"] = e.Post.CanonicalMap()
	case e.Comment != nil:
		m["data"] = e.Comment.CanonicalMap()
	default:
		m["count"] = e.Count
	}
	return m
}
