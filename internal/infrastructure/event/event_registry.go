package event

import (
	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/partner"
)

// RegisterAllEvents registers all domain event types with the serializer
// so relayed events can be deserialized back by their type name
func RegisterAllEvents(serializer *EventSerializer) {
	// Billing domain events
	serializer.Register(billing.EventTypePaymentRecorded, &billing.PaymentRecordedEvent{})
	serializer.Register(billing.EventTypeChequeStatusChanged, &billing.ChequeStatusChangedEvent{})
	serializer.Register(billing.EventTypeInvoiceSettled, &billing.InvoiceSettledEvent{})

	// Partner domain events
	serializer.Register(partner.EventTypeCustomerCreated, &partner.CustomerCreatedEvent{})
}
