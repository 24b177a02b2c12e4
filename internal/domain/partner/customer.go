package partner

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/factoryerp/backend/internal/domain/shared"
)

// CustomerStatus tells whether a customer can still be invoiced and
// paid against.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer is the payer referenced by invoices and payments. Customer
// management proper lives upstream; this aggregate carries what the
// payment ledger needs to identify and report on a payer.
type Customer struct {
	shared.TenantAggregateRoot
	Code        string
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	Status      CustomerStatus
}

// NewCustomer registers a payer under the tenant. The code is stored
// uppercased so lookups are case insensitive.
func NewCustomer(tenantID uuid.UUID, code, name string) (*Customer, error) {
	if err := requireField("INVALID_CUSTOMER_CODE", "Customer code", code, 50); err != nil {
		return nil, err
	}
	if err := requireField("INVALID_CUSTOMER_NAME", "Customer name", name, 200); err != nil {
		return nil, err
	}

	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              CustomerStatusActive,
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// Update replaces the customer's name and contact details. The code is
// immutable once assigned; payments and invoices reference it in
// reports.
func (c *Customer) Update(name, contactName, phone, email, address string) error {
	if err := requireField("INVALID_CUSTOMER_NAME", "Customer name", name, 200); err != nil {
		return err
	}

	c.Name = name
	c.ContactName = contactName
	c.Phone = phone
	c.Email = email
	c.Address = address
	c.UpdatedAt = time.Now()
	return nil
}

// Deactivate stops new activity against the customer. Existing
// invoices and payments stay on the books.
func (c *Customer) Deactivate() error {
	return c.setStatus(CustomerStatusInactive)
}

// Activate reopens an inactive customer.
func (c *Customer) Activate() error {
	return c.setStatus(CustomerStatusActive)
}

func (c *Customer) setStatus(target CustomerStatus) error {
	if c.Status == target {
		return shared.ErrInvalidState
	}
	c.Status = target
	c.UpdatedAt = time.Now()
	return nil
}

// IsActive reports whether the customer accepts new invoices and
// payments.
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

func requireField(code, label, value string, maxLen int) error {
	if value == "" {
		return shared.NewDomainError(code, label+" is required")
	}
	if len(value) > maxLen {
		return shared.NewDomainError(code, fmt.Sprintf("%s cannot exceed %d characters", label, maxLen))
	}
	return nil
}
