package ports

import (
	"context"

	"gatherly-backend/domain/events"
)

// EventBus publishes domain events after successful writes. Publication is
// best effort; write paths log and continue when it fails.
type EventBus interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
