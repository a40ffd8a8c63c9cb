// Package messaging provides abstractions for message broker communication.
// It defines interfaces that allow the service to publish telemetry messages
// without being coupled to a specific broker implementation.
package messaging

import "context"

// Publisher publishes messages to subjects.
type Publisher interface {
	// Publish sends a message to the specified subject.
	// The message is fire-and-forget; errors indicate local/broker failure only.
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishJSON marshals the payload to JSON and publishes it.
	PublishJSON(ctx context.Context, subject string, payload any) error

	// Close releases any resources held by the publisher.
	Close() error
}
