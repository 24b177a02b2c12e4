package billing

import (
	"context"
	"fmt"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ChequeBouncedHandler listens to cheque lifecycle events and raises an
// alert whenever a cheque bounces, since a bounce reopens the invoice
// and usually needs a follow-up call to the customer
type ChequeBouncedHandler struct {
	logger   *zap.Logger
	notifier ChequeAlertNotifier
}

// ChequeAlertNotifier is the interface for delivering bounce alerts.
// Implementations can support different channels (in-app, email, SMS).
type ChequeAlertNotifier interface {
	// SendAlert sends a cheque bounce alert
	SendAlert(ctx context.Context, alert ChequeAlert) error
}

// ChequeAlert describes a bounced cheque needing operator attention
type ChequeAlert struct {
	TenantID       string `json:"tenant_id"`
	PaymentID      string `json:"payment_id"`
	PaymentNumber  string `json:"payment_number"`
	InvoiceID      string `json:"invoice_id"`
	ChequeNumber   string `json:"cheque_number"`
	PreviousStatus string `json:"previous_status"`
}

// NewChequeBouncedHandler creates a new handler for cheque lifecycle events
func NewChequeBouncedHandler(logger *zap.Logger) *ChequeBouncedHandler {
	return &ChequeBouncedHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for sending bounce alerts
func (h *ChequeBouncedHandler) WithNotifier(notifier ChequeAlertNotifier) *ChequeBouncedHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *ChequeBouncedHandler) EventTypes() []string {
	return []string{billing.EventTypeChequeStatusChanged}
}

// Handle processes a ChequeStatusChangedEvent
func (h *ChequeBouncedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	statusEvent, ok := event.(*billing.ChequeStatusChangedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", billing.EventTypeChequeStatusChanged),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			billing.EventTypeChequeStatusChanged, event.EventType())
	}

	if statusEvent.NewStatus != billing.ChequeStatusBounced {
		return nil
	}

	h.logger.Warn("cheque bounced",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("payment_number", statusEvent.PaymentNumber),
		zap.String("invoice_id", statusEvent.InvoiceID.String()),
		zap.String("cheque_number", statusEvent.ChequeNumber),
		zap.String("previous_status", statusEvent.PreviousStatus.String()),
	)

	if h.notifier == nil {
		return nil
	}

	alert := ChequeAlert{
		TenantID:       event.TenantID().String(),
		PaymentID:      event.AggregateID().String(),
		PaymentNumber:  statusEvent.PaymentNumber,
		InvoiceID:      statusEvent.InvoiceID.String(),
		ChequeNumber:   statusEvent.ChequeNumber,
		PreviousStatus: statusEvent.PreviousStatus.String(),
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		// Notification failure must not fail the event handling
		h.logger.Error("failed to send cheque bounce alert",
			zap.String("payment_number", alert.PaymentNumber),
			zap.Error(err),
		)
	}
	return nil
}

// Ensure ChequeBouncedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ChequeBouncedHandler)(nil)

// LoggingChequeAlertNotifier is a simple notifier that logs alerts.
// Useful for development and testing.
type LoggingChequeAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingChequeAlertNotifier creates a new logging notifier
func NewLoggingChequeAlertNotifier(logger *zap.Logger) *LoggingChequeAlertNotifier {
	return &LoggingChequeAlertNotifier{
		logger: logger,
	}
}

// SendAlert logs the cheque bounce alert
func (n *LoggingChequeAlertNotifier) SendAlert(ctx context.Context, alert ChequeAlert) error {
	n.logger.Warn("CHEQUE BOUNCE ALERT",
		zap.String("payment_number", alert.PaymentNumber),
		zap.String("cheque_number", alert.ChequeNumber),
		zap.String("invoice_id", alert.InvoiceID),
	)
	return nil
}

// Ensure LoggingChequeAlertNotifier implements ChequeAlertNotifier
var _ ChequeAlertNotifier = (*LoggingChequeAlertNotifier)(nil)
