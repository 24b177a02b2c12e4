package event

import (
	"context"

	"github.com/factoryerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler subscribes to all domain events and writes each one
// as a structured audit line, with the full event payload serialized
// to JSON. It is registered as a wildcard handler.
type AuditLogHandler struct {
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewAuditLogHandler creates a new audit log handler
func NewAuditLogHandler(serializer *EventSerializer, logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		serializer: serializer,
		logger:     logger,
	}
}

// EventTypes returns nil so the handler receives every event
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle writes the event to the audit log
func (h *AuditLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := h.serializer.Serialize(event)
	if err != nil {
		h.logger.Error("failed to serialize domain event for audit log",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.ByteString("payload", payload),
	)
	return nil
}

// Ensure AuditLogHandler implements shared.EventHandler
var _ shared.EventHandler = (*AuditLogHandler)(nil)
