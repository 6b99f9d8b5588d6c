// Package events turns entity state transitions into lifecycle events.
//
// Only posts and comments are externally observable. A post's published
// flag is its visibility gate: publishing looks like a creation to
// subscribers, unpublishing like a deletion, and changes to a hidden post
// are invisible.
//
// Topics:
//   - "post": every visible post transition
//   - "comment:<postId>": comments created on one post
//   - "counter:<n>": ticks of the n-th count subscription
package events
