package billing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCheque:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentType records how the payment entered the ledger
type PaymentType string

const (
	PaymentTypeInitial         PaymentType = "INITIAL"          // Taken when the invoice was created
	PaymentTypeAdditional      PaymentType = "ADDITIONAL"       // Added later against one invoice
	PaymentTypeCustomerOverall PaymentType = "CUSTOMER_OVERALL" // Slice of a customer-level payment
)

// IsValid checks if the type is a valid PaymentType
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeInitial, PaymentTypeAdditional, PaymentTypeCustomerOverall:
		return true
	}
	return false
}

// ChequeStatus represents the lifecycle state of a cheque payment
type ChequeStatus string

const (
	ChequeStatusPending   ChequeStatus = "PENDING"
	ChequeStatusCleared   ChequeStatus = "CLEARED"
	ChequeStatusBounced   ChequeStatus = "BOUNCED"
	ChequeStatusCancelled ChequeStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ChequeStatus
func (s ChequeStatus) IsValid() bool {
	switch s {
	case ChequeStatusPending, ChequeStatusCleared, ChequeStatusBounced, ChequeStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ChequeStatus
func (s ChequeStatus) String() string {
	return string(s)
}

// ChequeDetails carries the cheque-specific payload of a cheque payment.
// It is a value object within the Payment aggregate, stored as JSONB.
type ChequeDetails struct {
	ChequeNumber  string          `json:"cheque_number"`
	ChequeDate    time.Time       `json:"cheque_date"`
	BankName      string          `json:"bank_name,omitempty"`
	Status        ChequeStatus    `json:"status"`
	ClearanceDate *time.Time      `json:"clearance_date,omitempty"`
	BounceReason  string          `json:"bounce_reason,omitempty"`
	BounceCharges decimal.Decimal `json:"bounce_charges"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (c *ChequeDetails) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (c *ChequeDetails) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ChequeDetails", value)
	}

	return json.Unmarshal(bytes, c)
}

// Payment is the aggregate root for a single ledger row: one amount paid
// against one invoice by one method. Amount, method and invoice reference
// are immutable after creation; only the cheque payload may change.
type Payment struct {
	shared.TenantAggregateRoot
	PaymentNumber string
	InvoiceID     uuid.UUID
	CustomerID    uuid.UUID
	PaymentDate   time.Time
	Amount        valueobject.Money
	Method        PaymentMethod
	Type          PaymentType
	Reference     string
	BankName      string
	Cheque        *ChequeDetails
	Notes         string
}

// NewPayment creates a new payment row. Cheque details must be present
// exactly when the method is CHEQUE; new cheques always start PENDING.
func NewPayment(
	tenantID, invoiceID, customerID uuid.UUID,
	paymentNumber string,
	paymentDate time.Time,
	amount valueobject.Money,
	method PaymentMethod,
	paymentType PaymentType,
	cheque *ChequeDetails,
) (*Payment, error) {
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "payment number is required")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "invoice is required")
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid payment method: %s", method))
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid payment type: %s", paymentType))
	}

	if method == PaymentMethodCheque {
		if cheque == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "cheque details are required for cheque payments")
		}
		if cheque.ChequeNumber == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "cheque number is required")
		}
		cheque.Status = ChequeStatusPending
		cheque.ClearanceDate = nil
		cheque.BounceReason = ""
		cheque.BounceCharges = decimal.Zero
	} else if cheque != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "cheque details are only allowed for cheque payments")
	}

	p := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PaymentNumber:       paymentNumber,
		InvoiceID:           invoiceID,
		CustomerID:          customerID,
		PaymentDate:         paymentDate,
		Amount:              amount,
		Method:              method,
		Type:                paymentType,
		Cheque:              cheque,
	}
	p.AddDomainEvent(NewPaymentRecordedEvent(p))
	return p, nil
}

// IsCheque returns true if the payment was made by cheque
func (p *Payment) IsCheque() bool {
	return p.Method == PaymentMethodCheque
}

// CountsTowardPaid reports whether the payment contributes to the
// invoice's paid amount: every non-cheque payment does, a cheque only
// once it has cleared.
func (p *Payment) CountsTowardPaid() bool {
	if !p.IsCheque() {
		return true
	}
	return p.Cheque != nil && p.Cheque.Status == ChequeStatusCleared
}

// IsPendingCheque reports whether the payment is a cheque still awaiting
// clearance
func (p *Payment) IsPendingCheque() bool {
	return p.IsCheque() && p.Cheque != nil && p.Cheque.Status == ChequeStatusPending
}

// ChequeTransition carries the inputs of a cheque status change
type ChequeTransition struct {
	Status        ChequeStatus
	ClearanceDate *time.Time
	BounceReason  string
	BounceCharges decimal.Decimal
}

// TransitionCheque moves the cheque to a new lifecycle status. Any
// status may be set from any other; re-opening a cleared cheque is an
// accepted operational correction. Clearance date is kept only for
// CLEARED, bounce fields only for BOUNCED, and a BOUNCED transition
// must carry a non-empty bounce reason.
func (p *Payment) TransitionCheque(t ChequeTransition) error {
	if !p.IsCheque() || p.Cheque == nil {
		return shared.NewDomainError("INVALID_STATE", "payment is not a cheque payment")
	}
	if !t.Status.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid cheque status: %s", t.Status))
	}
	if t.Status == ChequeStatusBounced && strings.TrimSpace(t.BounceReason) == "" {
		return shared.NewDomainError("INVALID_INPUT", "bounce reason is required")
	}

	previous := p.Cheque.Status
	p.Cheque.Status = t.Status
	p.Cheque.ClearanceDate = nil
	p.Cheque.BounceReason = ""
	p.Cheque.BounceCharges = decimal.Zero

	switch t.Status {
	case ChequeStatusCleared:
		if t.ClearanceDate != nil {
			p.Cheque.ClearanceDate = t.ClearanceDate
		} else {
			now := time.Now()
			p.Cheque.ClearanceDate = &now
		}
	case ChequeStatusBounced:
		p.Cheque.BounceReason = t.BounceReason
		p.Cheque.BounceCharges = t.BounceCharges
	}

	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewChequeStatusChangedEvent(p, previous))
	return nil
}
