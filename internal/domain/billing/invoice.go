package billing

import (
	"time"

	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentStatus represents how much of an invoice has been settled
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"  // No recognized payments yet
	PaymentStatusPartial PaymentStatus = "PARTIAL" // 0 < paid < total
	PaymentStatusPaid    PaymentStatus = "PAID"    // Balance is zero at cent precision
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// InvoiceStatus represents the document lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusConfirmed InvoiceStatus = "CONFIRMED"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusConfirmed, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Invoice is the aggregate root for a customer invoice in the payment ledger.
// TotalAmount is fixed at creation; PaidAmount, BalanceAmount,
// PendingChequeAmount and PaymentStatus are derived and may only be
// mutated through ApplySettlement.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber       string
	CustomerID          uuid.UUID
	InvoiceDate         time.Time
	TotalAmount         valueobject.Money
	PaidAmount          valueobject.Money
	BalanceAmount       valueobject.Money
	PendingChequeAmount valueobject.Money
	PaymentStatus       PaymentStatus
	Status              InvoiceStatus
	Notes               string
}

// NewInvoice creates a new draft invoice with derived fields at their
// initial values (nothing paid, full balance outstanding).
func NewInvoice(tenantID, customerID uuid.UUID, invoiceNumber string, invoiceDate time.Time, total valueobject.Money) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "invoice number is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "customer is required")
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "invoice total cannot be negative")
	}

	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		CustomerID:          customerID,
		InvoiceDate:         invoiceDate,
		TotalAmount:         total,
		PaidAmount:          valueobject.Zero(total.Currency()),
		BalanceAmount:       total,
		PendingChequeAmount: valueobject.Zero(total.Currency()),
		PaymentStatus:       PaymentStatusUnpaid,
		Status:              InvoiceStatusDraft,
	}, nil
}

// Confirm moves a draft invoice into the confirmed state where it can
// accept payments
func (i *Invoice) Confirm() error {
	if i.Status != InvoiceStatusDraft {
		return shared.ErrInvalidState
	}
	i.Status = InvoiceStatusConfirmed
	i.UpdatedAt = time.Now()
	return nil
}

// Cancel voids the invoice. Cancelled invoices no longer accept payments;
// existing payment rows are kept for audit.
func (i *Invoice) Cancel() error {
	if i.Status == InvoiceStatusCancelled {
		return shared.ErrInvalidState
	}
	i.Status = InvoiceStatusCancelled
	i.UpdatedAt = time.Now()
	return nil
}

// CanAcceptPayment returns true if payments may be recorded against the invoice
func (i *Invoice) CanAcceptPayment() bool {
	return i.Status == InvoiceStatusConfirmed
}

// IsOpen returns true if the invoice still has an outstanding balance
// and is eligible for allocation
func (i *Invoice) IsOpen() bool {
	return i.Status == InvoiceStatusConfirmed && i.PaymentStatus != PaymentStatusPaid
}

// ApplySettlement overwrites the derived fields from a freshly computed
// settlement. This is the only mutation path for paid/balance/status:
// callers recompute from the full payment history and apply the result.
func (i *Invoice) ApplySettlement(s Settlement) error {
	if !s.Total.Equals(i.TotalAmount) {
		return shared.ErrInvariantViolation
	}
	if s.Paid.IsNegative() || s.Balance.IsNegative() || s.PendingCheque.IsNegative() {
		return shared.ErrInvariantViolation
	}
	if !s.Status.IsValid() {
		return shared.ErrInvariantViolation
	}

	i.PaidAmount = s.Paid
	i.BalanceAmount = s.Balance
	i.PendingChequeAmount = s.PendingCheque
	i.PaymentStatus = s.Status
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewInvoiceSettledEvent(i))
	return nil
}
