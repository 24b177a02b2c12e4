package billing

import (
	"time"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChequeInput carries the cheque payload of a cheque payment line
type ChequeInput struct {
	ChequeNumber string
	ChequeDate   time.Time
	BankName     string
}

// PaymentLine is one method/amount pair of an invoice payment. A line
// without a Date takes the request's payment date, or the invoice date
// when that is missing too.
type PaymentLine struct {
	Amount    decimal.Decimal
	Date      time.Time
	Method    billing.PaymentMethod
	Reference string
	BankName  string
	Cheque    *ChequeInput
}

// AddInvoicePaymentRequest records one or more payment lines against a
// single invoice
type AddInvoicePaymentRequest struct {
	TenantID    uuid.UUID
	InvoiceID   uuid.UUID
	PaymentDate time.Time
	Initial     bool // true when taken at invoice creation time
	Lines       []PaymentLine
	Notes       string
}

// AddCustomerPaymentRequest records a customer-level payment allocated
// across the customer's open invoices
type AddCustomerPaymentRequest struct {
	TenantID    uuid.UUID
	CustomerID  uuid.UUID
	PaymentDate time.Time
	Amount      decimal.Decimal
	Method      billing.PaymentMethod
	Reference   string
	BankName    string
	Cheque      *ChequeInput
}

// TransitionChequeRequest moves a cheque payment to a new lifecycle status
type TransitionChequeRequest struct {
	TenantID      uuid.UUID
	PaymentID     uuid.UUID
	Status        billing.ChequeStatus
	ClearanceDate *time.Time
	BounceReason  string
	BounceCharges decimal.Decimal
}

// InvoiceTotals is the refreshed derived state of an invoice after an
// operation
type InvoiceTotals struct {
	InvoiceID           uuid.UUID             `json:"invoice_id"`
	InvoiceNumber       string                `json:"invoice_number"`
	TotalAmount         decimal.Decimal       `json:"total_amount"`
	PaidAmount          decimal.Decimal       `json:"paid_amount"`
	BalanceAmount       decimal.Decimal       `json:"balance_amount"`
	PendingChequeAmount decimal.Decimal       `json:"pending_cheque_amount"`
	PaymentStatus       billing.PaymentStatus `json:"payment_status"`
}

// InvoicePaymentResult is the outcome of AddInvoicePayment
type InvoicePaymentResult struct {
	PaymentNumbers []string      `json:"payment_numbers"`
	Totals         InvoiceTotals `json:"totals"`
}

// AllocationResult is one invoice's share of a customer-level payment
type AllocationResult struct {
	InvoiceID       uuid.UUID             `json:"invoice_id"`
	InvoiceNumber   string                `json:"invoice_number"`
	Amount          decimal.Decimal       `json:"amount"`
	PaymentNumber   string                `json:"payment_number,omitempty"`
	ResultingStatus billing.PaymentStatus `json:"resulting_status"`
}

// CustomerPaymentResult is the outcome of AddCustomerPayment
type CustomerPaymentResult struct {
	CustomerID     uuid.UUID          `json:"customer_id"`
	TotalAllocated decimal.Decimal    `json:"total_allocated"`
	Allocations    []AllocationResult `json:"allocations"`
}

// PaymentView is one payment row in a history response
type PaymentView struct {
	PaymentID     uuid.UUID              `json:"payment_id"`
	PaymentNumber string                 `json:"payment_number"`
	InvoiceID     uuid.UUID              `json:"invoice_id"`
	CustomerID    uuid.UUID              `json:"customer_id"`
	PaymentDate   time.Time              `json:"payment_date"`
	Amount        decimal.Decimal        `json:"amount"`
	Method        billing.PaymentMethod  `json:"method"`
	Type          billing.PaymentType    `json:"type"`
	Reference     string                 `json:"reference,omitempty"`
	BankName      string                 `json:"bank_name,omitempty"`
	Cheque        *billing.ChequeDetails `json:"cheque,omitempty"`
}

// PaymentHistoryResult is the full payment history of an invoice with a
// per-method breakdown of recognized amounts
type PaymentHistoryResult struct {
	Totals          InvoiceTotals              `json:"totals"`
	Payments        []PaymentView              `json:"payments"`
	MethodBreakdown map[string]decimal.Decimal `json:"method_breakdown"`
}

// CustomerSummaryResult aggregates a customer's receivable position
type CustomerSummaryResult struct {
	CustomerID         uuid.UUID       `json:"customer_id"`
	OutstandingAmount  decimal.Decimal `json:"outstanding_amount"`
	OpenInvoiceCount   int             `json:"open_invoice_count"`
	OldestOpenInvoice  *time.Time      `json:"oldest_open_invoice,omitempty"`
	PendingChequeTotal decimal.Decimal `json:"pending_cheque_total"`
}

func totalsFromInvoice(inv *billing.Invoice) InvoiceTotals {
	return InvoiceTotals{
		InvoiceID:           inv.ID,
		InvoiceNumber:       inv.InvoiceNumber,
		TotalAmount:         inv.TotalAmount.Amount(),
		PaidAmount:          inv.PaidAmount.Amount(),
		BalanceAmount:       inv.BalanceAmount.Amount(),
		PendingChequeAmount: inv.PendingChequeAmount.Amount(),
		PaymentStatus:       inv.PaymentStatus,
	}
}

func viewFromPayment(p *billing.Payment) PaymentView {
	return PaymentView{
		PaymentID:     p.ID,
		PaymentNumber: p.PaymentNumber,
		InvoiceID:     p.InvoiceID,
		CustomerID:    p.CustomerID,
		PaymentDate:   p.PaymentDate,
		Amount:        p.Amount.Amount(),
		Method:        p.Method,
		Type:          p.Type,
		Reference:     p.Reference,
		BankName:      p.BankName,
		Cheque:        p.Cheque,
	}
}
