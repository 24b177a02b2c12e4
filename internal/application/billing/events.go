package billing

import (
	"context"

	"github.com/factoryerp/backend/internal/domain/shared"
)

// publishDomainEvents drains pending events from the given aggregates
// and hands them to the publisher. A nil publisher disables publishing;
// handler errors are logged by the bus and never propagated here.
func publishDomainEvents(ctx context.Context, publisher shared.EventPublisher, roots ...shared.AggregateRoot) {
	if publisher == nil {
		return
	}
	for _, root := range roots {
		events := root.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = publisher.Publish(ctx, events...)
		root.ClearDomainEvents()
	}
}
