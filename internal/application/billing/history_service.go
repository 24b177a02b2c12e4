package billing

import (
	"context"
	"fmt"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/partner"
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HistoryService serves the read side of the ledger: payment history,
// invoice lists and per-customer receivable summaries. It reads through
// the plain repositories, outside any transaction scope.
type HistoryService struct {
	invoiceRepo  billing.InvoiceRepository
	paymentRepo  billing.PaymentRepository
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	customerRepo partner.CustomerRepository,
	logger *zap.Logger,
) *HistoryService {
	return &HistoryService{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// GetPaymentHistory returns every payment row of an invoice together
// with the invoice totals and a per-method breakdown of recognized
// amounts. Pending and dishonored cheques appear in the rows but not
// in the breakdown.
func (s *HistoryService) GetPaymentHistory(ctx context.Context, tenantID, invoiceID uuid.UUID) (*PaymentHistoryResult, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice == nil {
		return nil, shared.ErrNotFound
	}

	payments, err := s.paymentRepo.FindByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment history: %w", err)
	}

	views := make([]PaymentView, 0, len(payments))
	breakdown := make(map[string]decimal.Decimal)
	for _, p := range payments {
		views = append(views, viewFromPayment(p))
		if p.CountsTowardPaid() {
			key := p.Method.String()
			breakdown[key] = breakdown[key].Add(p.Amount.Amount())
		}
	}

	return &PaymentHistoryResult{
		Totals:          totalsFromInvoice(invoice),
		Payments:        views,
		MethodBreakdown: breakdown,
	}, nil
}

// GetInvoice returns the derived totals of a single invoice
func (s *HistoryService) GetInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceTotals, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice == nil {
		return nil, shared.ErrNotFound
	}
	totals := totalsFromInvoice(invoice)
	return &totals, nil
}

// ListInvoices returns invoices matching the filter with their derived
// totals
func (s *HistoryService) ListInvoices(ctx context.Context, tenantID uuid.UUID, filter billing.InvoiceFilter) ([]InvoiceTotals, int64, error) {
	invoices, total, err := s.invoiceRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}

	results := make([]InvoiceTotals, 0, len(invoices))
	for _, inv := range invoices {
		results = append(results, totalsFromInvoice(inv))
	}
	return results, total, nil
}

// GetCustomerSummary aggregates a customer's receivable position across
// their open invoices
func (s *HistoryService) GetCustomerSummary(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerSummaryResult, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if customer == nil {
		return nil, shared.ErrNotFound
	}

	open, err := s.invoiceRepo.FindOpenByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open invoices: %w", err)
	}

	outstanding := decimal.Zero
	pendingCheques := decimal.Zero
	result := &CustomerSummaryResult{CustomerID: customerID}
	for _, inv := range open {
		outstanding = outstanding.Add(inv.BalanceAmount.Amount())
		pendingCheques = pendingCheques.Add(inv.PendingChequeAmount.Amount())
		if result.OldestOpenInvoice == nil || inv.InvoiceDate.Before(*result.OldestOpenInvoice) {
			d := inv.InvoiceDate
			result.OldestOpenInvoice = &d
		}
	}

	result.OutstandingAmount = outstanding
	result.PendingChequeTotal = pendingCheques
	result.OpenInvoiceCount = len(open)
	return result, nil
}
