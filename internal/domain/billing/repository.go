package billing

import (
	"context"
	"time"

	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InvoiceFilter narrows invoice list queries
type InvoiceFilter struct {
	CustomerID    *uuid.UUID
	Status        *InvoiceStatus
	PaymentStatus *PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
	Page          int
	PageSize      int
}

// ChequeFilter narrows cheque register queries
type ChequeFilter struct {
	Status     *ChequeStatus
	CustomerID *uuid.UUID
	Page       int
	PageSize   int
}

// InvoiceRepository persists Invoice aggregates
type InvoiceRepository interface {
	// Create inserts a new invoice
	Create(ctx context.Context, invoice *Invoice) error

	// FindByID loads an invoice for the tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate loads an invoice with a row lock; must be called
	// inside a transaction scope
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindOpenByCustomer returns the customer's confirmed, not fully paid
	// invoices ordered oldest first (invoice date, then id)
	FindOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) ([]*Invoice, error)

	// FindOpenByCustomerForUpdate is FindOpenByCustomer with row locks;
	// must be called inside a transaction scope
	FindOpenByCustomerForUpdate(ctx context.Context, tenantID, customerID uuid.UUID) ([]*Invoice, error)

	// OutstandingByCustomer sums the open balances of a customer
	OutstandingByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (valueobject.Money, error)

	// List returns invoices matching the filter with a total count
	List(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]*Invoice, int64, error)

	// Save persists changes to an existing invoice using optimistic locking
	Save(ctx context.Context, invoice *Invoice) error
}

// PaymentRepository persists Payment aggregates
type PaymentRepository interface {
	// Create inserts a new payment row
	Create(ctx context.Context, payment *Payment) error

	// FindByID loads a payment for the tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	// FindByInvoice returns every payment row of an invoice ordered by
	// payment date then creation time
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*Payment, error)

	// FindCheques returns cheque payments matching the filter with a
	// total count
	FindCheques(ctx context.Context, tenantID uuid.UUID, filter ChequeFilter) ([]*Payment, int64, error)

	// NextPaymentNumber issues the next sequential payment number for the
	// tenant. Implementations must serialize issuance when called inside
	// a transaction scope so concurrent payments never share a number.
	NextPaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error)

	// Save persists changes to an existing payment using optimistic locking
	Save(ctx context.Context, payment *Payment) error
}
