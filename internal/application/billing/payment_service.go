package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
	"github.com/factoryerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService coordinates the mutating ledger operations: recording
// payments against invoices, allocating customer-level payments, and
// recomputing invoice totals. Every operation runs inside one
// transaction scope.
type PaymentService struct {
	scope          TransactionScope
	invoiceRepo    billing.InvoiceRepository
	paymentRepo    billing.PaymentRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	scope TransactionScope,
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		scope:       scope,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher used for ledger domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AddInvoicePayment records one or more payment lines against a single
// invoice. Non-positive lines are dropped; the remaining lines must sum
// to at most the invoice's current balance. Each line becomes its own
// payment row with its own payment number, dated to the line's own date
// when it carries one, and the invoice totals are recomputed once after
// all rows are inserted.
func (s *PaymentService) AddInvoicePayment(ctx context.Context, req AddInvoicePaymentRequest) (*InvoicePaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "add_invoice_payment",
		telemetry.WithAttribute(telemetry.SpanAttrInvoiceID, req.InvoiceID.String()),
	)
	defer span.End()

	lines, err := filterPositiveLines(req.Lines)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	paymentType := billing.PaymentTypeAdditional
	if req.Initial {
		paymentType = billing.PaymentTypeInitial
	}

	var result *InvoicePaymentResult
	var settled []shared.AggregateRoot
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, req.TenantID, req.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to load invoice: %w", err)
		}
		if invoice == nil {
			return shared.ErrNotFound
		}
		if !invoice.CanAcceptPayment() {
			return shared.ErrInvalidState
		}

		var payments []*billing.Payment
		result, payments, err = recordPaymentLines(ctx, repos, invoice, lines, paymentType, req.PaymentDate, req.Notes)
		if err != nil {
			return err
		}
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
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceStatus, string(result.Totals.PaymentStatus),
		"lines", len(lines),
	)

	s.logger.Info("invoice payment recorded",
		zap.String("invoice_id", req.InvoiceID.String()),
		zap.Int("lines", len(lines)),
		zap.String("balance", result.Totals.BalanceAmount.String()),
	)
	return result, nil
}

// AddCustomerPayment allocates one payment across a customer's open
// invoices, oldest first. The amount must not exceed the customer's
// total outstanding; an excessive amount rejects the whole payment.
// Each funded invoice gets its own CUSTOMER_OVERALL payment row and an
// immediate recomputation.
func (s *PaymentService) AddCustomerPayment(ctx context.Context, req AddCustomerPaymentRequest) (*CustomerPaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "add_customer_payment",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, req.CustomerID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrAmount, req.Amount.String()),
	)
	defer span.End()

	if !req.Amount.IsPositive() {
		telemetry.RecordError(span, shared.ErrInvalidAmount)
		return nil, shared.ErrInvalidAmount
	}
	if !req.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid payment method: %s", req.Method))
	}
	paymentDate := req.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	var result *CustomerPaymentResult
	var settled []shared.AggregateRoot
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoices, err := repos.InvoiceRepo().FindOpenByCustomerForUpdate(ctx, req.TenantID, req.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to load open invoices: %w", err)
		}

		amount := valueobject.NewMoneyLKR(req.Amount)
		allocations, err := billing.AllocatePayment(amount, invoices)
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]*billing.Invoice, len(invoices))
		for _, inv := range invoices {
			byID[inv.ID] = inv
		}

		results := make([]AllocationResult, 0, len(allocations))
		for _, alloc := range allocations {
			r := AllocationResult{
				InvoiceID:     alloc.InvoiceID,
				InvoiceNumber: alloc.InvoiceNumber,
				Amount:        alloc.Amount.Amount(),
			}
			if alloc.Amount.IsPositive() {
				number, err := repos.PaymentRepo().NextPaymentNumber(ctx, req.TenantID)
				if err != nil {
					return fmt.Errorf("failed to issue payment number: %w", err)
				}

				payment, err := billing.NewPayment(
					req.TenantID, alloc.InvoiceID, req.CustomerID,
					number, paymentDate, alloc.Amount,
					req.Method, billing.PaymentTypeCustomerOverall,
					chequeFromInput(req.Cheque),
				)
				if err != nil {
					return err
				}
				payment.Reference = req.Reference
				payment.BankName = req.BankName

				if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
					return fmt.Errorf("failed to create payment: %w", err)
				}
				r.PaymentNumber = number

				if err := recomputeLocked(ctx, repos, byID[alloc.InvoiceID]); err != nil {
					return err
				}
				settled = append(settled, payment, byID[alloc.InvoiceID])
			}
			r.ResultingStatus = byID[alloc.InvoiceID].PaymentStatus
			results = append(results, r)
		}

		result = &CustomerPaymentResult{
			CustomerID:     req.CustomerID,
			TotalAllocated: req.Amount,
			Allocations:    results,
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishDomainEvents(ctx, s.eventPublisher, settled...)
	telemetry.SetAttributes(span, "allocations", len(result.Allocations))

	s.logger.Info("customer payment allocated",
		zap.String("customer_id", req.CustomerID.String()),
		zap.String("amount", req.Amount.String()),
		zap.Int("invoices", len(result.Allocations)),
	)
	return result, nil
}

// RecomputeInvoice rebuilds an invoice's derived totals from its full
// payment history. The operation is idempotent and safe to call
// redundantly, e.g. after a suspected drift.
func (s *PaymentService) RecomputeInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceTotals, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "recompute_invoice",
		telemetry.WithAttribute(telemetry.SpanAttrInvoiceID, invoiceID.String()),
	)
	defer span.End()

	var totals *InvoiceTotals
	var settled *billing.Invoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, tenantID, invoiceID)
		if err != nil {
			return fmt.Errorf("failed to load invoice: %w", err)
		}
		if invoice == nil {
			return shared.ErrNotFound
		}
		if err := recomputeLocked(ctx, repos, invoice); err != nil {
			return err
		}
		t := totalsFromInvoice(invoice)
		totals = &t
		settled = invoice
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishDomainEvents(ctx, s.eventPublisher, settled)
	return totals, nil
}

// recordPaymentLines inserts one payment row per line against an
// invoice already locked by the surrounding transaction, then
// recomputes the invoice once. The lines must sum to at most the
// invoice's current balance, compared at cent precision. Each row is
// dated to its line's date, falling back to paymentDate and then to
// the invoice date.
func recordPaymentLines(
	ctx context.Context,
	repos TransactionalRepositories,
	invoice *billing.Invoice,
	lines []PaymentLine,
	paymentType billing.PaymentType,
	paymentDate time.Time,
	notes string,
) (*InvoicePaymentResult, []*billing.Payment, error) {
	currency := invoice.TotalAmount.Currency()
	sum := valueobject.Zero(currency)
	for _, line := range lines {
		amount, err := valueobject.NewMoney(line.Amount, currency)
		if err != nil {
			return nil, nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
		}
		sum, err = sum.Add(amount)
		if err != nil {
			return nil, nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
		}
	}
	if exceeds, err := sum.Round(2).GreaterThan(invoice.BalanceAmount.Round(2)); err != nil {
		return nil, nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	} else if exceeds {
		return nil, nil, shared.ErrExceedsBalance
	}

	fallbackDate := paymentDate
	if fallbackDate.IsZero() {
		fallbackDate = invoice.InvoiceDate
	}

	numbers := make([]string, 0, len(lines))
	created := make([]*billing.Payment, 0, len(lines))
	for _, line := range lines {
		number, err := repos.PaymentRepo().NextPaymentNumber(ctx, invoice.TenantID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to issue payment number: %w", err)
		}

		lineDate := line.Date
		if lineDate.IsZero() {
			lineDate = fallbackDate
		}
		amount, _ := valueobject.NewMoney(line.Amount, currency)
		payment, err := billing.NewPayment(
			invoice.TenantID, invoice.ID, invoice.CustomerID,
			number, lineDate, amount,
			line.Method, paymentType, chequeFromInput(line.Cheque),
		)
		if err != nil {
			return nil, nil, err
		}
		payment.Reference = line.Reference
		payment.BankName = line.BankName
		payment.Notes = notes

		if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
			return nil, nil, fmt.Errorf("failed to create payment: %w", err)
		}
		numbers = append(numbers, number)
		created = append(created, payment)
	}

	if err := recomputeLocked(ctx, repos, invoice); err != nil {
		return nil, nil, err
	}

	return &InvoicePaymentResult{
		PaymentNumbers: numbers,
		Totals:         totalsFromInvoice(invoice),
	}, created, nil
}

// filterPositiveLines drops non-positive lines and validates the rest
func filterPositiveLines(input []PaymentLine) ([]PaymentLine, error) {
	lines := make([]PaymentLine, 0, len(input))
	for _, line := range input {
		if line.Amount.IsPositive() {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, shared.ErrEmptyPaymentLines
	}
	for _, line := range lines {
		if !line.Method.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid payment method: %s", line.Method))
		}
	}
	return lines, nil
}

// recomputeLocked recalculates and persists the derived fields of an
// invoice already locked by the surrounding transaction.
func recomputeLocked(ctx context.Context, repos TransactionalRepositories, invoice *billing.Invoice) error {
	payments, err := repos.PaymentRepo().FindByInvoice(ctx, invoice.TenantID, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to load payment history: %w", err)
	}

	settlement, err := billing.CalculateSettlement(invoice.TotalAmount, payments)
	if err != nil {
		return err
	}
	if err := invoice.ApplySettlement(settlement); err != nil {
		return err
	}
	if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

// chequeFromInput maps the request payload to the domain value object.
// Each payment row gets its own copy so rows never share cheque state.
func chequeFromInput(in *ChequeInput) *billing.ChequeDetails {
	if in == nil {
		return nil
	}
	return &billing.ChequeDetails{
		ChequeNumber: in.ChequeNumber,
		ChequeDate:   in.ChequeDate,
		BankName:     in.BankName,
	}
}
