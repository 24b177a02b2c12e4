package billing

import (
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants for the billing context
const (
	EventTypePaymentRecorded     = "billing.payment.recorded"
	EventTypeChequeStatusChanged = "billing.cheque.status_changed"
	EventTypeInvoiceSettled      = "billing.invoice.settled"
)

// PaymentRecordedEvent is raised when a new payment row enters the ledger
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string        `json:"payment_number"`
	InvoiceID     uuid.UUID     `json:"invoice_id"`
	CustomerID    uuid.UUID     `json:"customer_id"`
	Amount        string        `json:"amount"`
	Method        PaymentMethod `json:"method"`
	PaymentType   PaymentType   `json:"payment_type"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, "Payment", p.ID, p.TenantID),
		PaymentNumber:   p.PaymentNumber,
		InvoiceID:       p.InvoiceID,
		CustomerID:      p.CustomerID,
		Amount:          p.Amount.StringFixed(2),
		Method:          p.Method,
		PaymentType:     p.Type,
	}
}

// ChequeStatusChangedEvent is raised when a cheque moves through its lifecycle
type ChequeStatusChangedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber  string       `json:"payment_number"`
	InvoiceID      uuid.UUID    `json:"invoice_id"`
	ChequeNumber   string       `json:"cheque_number"`
	PreviousStatus ChequeStatus `json:"previous_status"`
	NewStatus      ChequeStatus `json:"new_status"`
}

// NewChequeStatusChangedEvent creates a new ChequeStatusChangedEvent
func NewChequeStatusChangedEvent(p *Payment, previous ChequeStatus) *ChequeStatusChangedEvent {
	e := &ChequeStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChequeStatusChanged, "Payment", p.ID, p.TenantID),
		PaymentNumber:   p.PaymentNumber,
		InvoiceID:       p.InvoiceID,
		PreviousStatus:  previous,
	}
	if p.Cheque != nil {
		e.ChequeNumber = p.Cheque.ChequeNumber
		e.NewStatus = p.Cheque.Status
	}
	return e
}

// InvoiceSettledEvent is raised whenever an invoice's derived totals are
// recomputed and applied
type InvoiceSettledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string        `json:"invoice_number"`
	CustomerID    uuid.UUID     `json:"customer_id"`
	PaidAmount    string        `json:"paid_amount"`
	BalanceAmount string        `json:"balance_amount"`
	PendingCheque string        `json:"pending_cheque_amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// NewInvoiceSettledEvent creates a new InvoiceSettledEvent
func NewInvoiceSettledEvent(i *Invoice) *InvoiceSettledEvent {
	return &InvoiceSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSettled, "Invoice", i.ID, i.TenantID),
		InvoiceNumber:   i.InvoiceNumber,
		CustomerID:      i.CustomerID,
		PaidAmount:      i.PaidAmount.StringFixed(2),
		BalanceAmount:   i.BalanceAmount.StringFixed(2),
		PendingCheque:   i.PendingChequeAmount.StringFixed(2),
		PaymentStatus:   i.PaymentStatus,
	}
}
