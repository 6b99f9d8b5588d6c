// Package harness runs scripted scenarios against a fresh engine and
// checks the events and final state they produce.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: walkthrough
//	description: "What this scenario validates"
//	steps:
//	  - op: create_user
//	    as: u
//	    args: { name: Ayush, email: a@x.com }
//	  - op: subscribe_posts
//	    as: feed
//	  - op: create_post
//	    as: p
//	    args: { title: Hello, body: World, published: true, author: $u }
//	  - op: create_comment
//	    args: { text: hi, author: $u, post: missing }
//	    expect_error: VALIDATION
//	assertions:
//	  - type: event_sequence
//	    subscription: feed
//	    mutations: [CREATED]
//	  - type: final_state
//	    kind: post
//	    id: $p
//	    expect: { published: true }
//
// "as" binds the id of a created entity, or a subscription, to a name.
// String arguments of the form "$name" are replaced by the bound id.
//
// # Assertion Types
//
//   - event_count: a subscription received exactly N events
//   - event_sequence: a subscription received these mutations, in order
//   - entity_count: a collection holds exactly N entities at the end
//   - final_state: an entity is absent, or its fields contain expect
//
// # Determinism
//
// Every run uses an isolated in-memory store with sequential ids
// ("id-0001", ...), so the trace of a scenario is byte-for-byte stable and
// can be compared against a golden file (see Snapshot and GoldenPath).
package harness
