// Package services implements the application operations over the repository
// ports. Services enforce authorization and invariants; repositories only
// move rows.
package services

import (
	"context"

	"go.uber.org/zap"

	"gatherly-backend/application/ports"
	"gatherly-backend/domain/events"
)

// publish sends a domain event best-effort. Write paths call it after the
// store write succeeded; a publish failure is logged and swallowed.
func publish(ctx context.Context, bus ports.EventBus, logger *zap.Logger, event events.DomainEvent) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish domain event",
			zap.String("eventType", event.Type),
			zap.String("entityId", event.EntityID),
			zap.Error(err),
		)
	}
}
