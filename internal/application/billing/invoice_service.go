package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/partner"
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
	"github.com/factoryerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateInvoiceRequest opens a new invoice in the ledger, optionally
// recording money collected at creation time
type CreateInvoiceRequest struct {
	TenantID      uuid.UUID
	CustomerID    uuid.UUID
	InvoiceNumber string
	InvoiceDate   time.Time
	TotalAmount   decimal.Decimal
	Notes         string
	InitialLines  []PaymentLine
}

// CreateInvoiceResult is the outcome of CreateInvoice
type CreateInvoiceResult struct {
	Totals         InvoiceTotals `json:"totals"`
	PaymentNumbers []string      `json:"payment_numbers,omitempty"`
}

// InvoiceService opens and voids invoices. Line items, taxes and
// pricing are computed upstream; the ledger receives the final total.
type InvoiceService struct {
	scope          TransactionScope
	invoiceRepo    billing.InvoiceRepository
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	scope TransactionScope,
	invoiceRepo billing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		scope:        scope,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher used for ledger domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateInvoice opens a confirmed invoice and records any money taken
// at creation as INITIAL payment rows, all in one transaction.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*CreateInvoiceResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.WithAttribute(telemetry.SpanAttrInvoiceNumber, req.InvoiceNumber),
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, req.CustomerID.String()),
	)
	defer span.End()

	if !req.TotalAmount.IsPositive() {
		telemetry.RecordError(span, shared.ErrInvalidAmount)
		return nil, shared.ErrInvalidAmount
	}
	total, err := valueobject.NewMoney(req.TotalAmount, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}

	var lines []PaymentLine
	if len(req.InitialLines) > 0 {
		lines, err = filterPositiveLines(req.InitialLines)
		if err != nil {
			return nil, err
		}
	}

	customer, err := s.customerRepo.FindByID(ctx, req.TenantID, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if customer == nil {
		return nil, shared.ErrNotFound
	}
	if !customer.IsActive() {
		return nil, shared.ErrInvalidState
	}

	invoiceDate := req.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	invoice, err := billing.NewInvoice(req.TenantID, req.CustomerID, req.InvoiceNumber, invoiceDate, total)
	if err != nil {
		return nil, err
	}
	invoice.Notes = req.Notes
	if err := invoice.Confirm(); err != nil {
		return nil, err
	}

	var result *CreateInvoiceResult
	var settled []shared.AggregateRoot
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.InvoiceRepo().Create(ctx, invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		result = &CreateInvoiceResult{Totals: totalsFromInvoice(invoice)}
		if len(lines) == 0 {
			settled = append(settled, invoice)
			return nil
		}

		paymentResult, payments, err := recordPaymentLines(ctx, repos, invoice, lines, billing.PaymentTypeInitial, invoiceDate, req.Notes)
		if err != nil {
			return err
		}
		result.Totals = paymentResult.Totals
		result.PaymentNumbers = paymentResult.PaymentNumbers
		for _, p := range payments {
			settled = append(settled, p)
		}
		settled = append(settled, invoice)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishDomainEvents(ctx, s.eventPublisher, settled...)

	s.logger.Info("invoice created",
		zap.String("invoice_number", req.InvoiceNumber),
		zap.String("total", req.TotalAmount.String()),
		zap.Int("initial_lines", len(lines)),
	)
	return result, nil
}

// CancelInvoice voids an invoice. Payment rows are kept for audit and
// the derived totals stay at their last recomputed values.
func (s *InvoiceService) CancelInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, tenantID, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to load invoice: %w", err)
		}
		if invoice == nil {
			return shared.ErrNotFound
		}
		if err := invoice.Cancel(); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		return nil
	})
}
