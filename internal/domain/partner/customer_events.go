package partner

import (
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeCustomer = "Customer"

	EventTypeCustomerCreated = "CustomerCreated"
)

// CustomerCreatedEvent records that a customer account was opened.
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

// NewCustomerCreatedEvent snapshots the identifying fields of a freshly
// created customer.
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, customer.ID, customer.TenantID),
		CustomerID:      customer.ID,
		Code:            customer.Code,
		Name:            customer.Name,
	}
}
