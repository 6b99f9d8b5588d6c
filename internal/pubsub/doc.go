// Package pubsub delivers events to topic subscribers.
//
// Every subscription owns a bounded buffer. Publish never blocks: when a
// buffer is full the configured Policy decides which event is lost, and
// the loss is counted on the subscription.
//
// Delivery order on a topic is subscription registration order. A
// subscription lives until Close is called, its context is cancelled, or
// the broker closes; after that its channel is closed and its buffer
// released.
package pubsub
