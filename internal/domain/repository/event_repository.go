package repository

import "context"

// EventPublisher publishes a JSON document to an event bus and returns the event id.
type EventPublisher interface {
	Publish(ctx context.Context, busName, source, detailType string, detail []byte) (string, error)
}
