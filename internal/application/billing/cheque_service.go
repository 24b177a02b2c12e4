package billing

import (
	"context"
	"fmt"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChequeService manages the cheque lifecycle: status transitions with
// immediate recomputation of the affected invoice, and the cheque
// register queries.
type ChequeService struct {
	scope          TransactionScope
	paymentRepo    billing.PaymentRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewChequeService creates a new ChequeService
func NewChequeService(
	scope TransactionScope,
	paymentRepo billing.PaymentRepository,
	logger *zap.Logger,
) *ChequeService {
	return &ChequeService{
		scope:       scope,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher used for cheque lifecycle events
func (s *ChequeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// TransitionCheque moves a cheque payment to a new status and refreshes
// the invoice totals in the same transaction. Transitions are not
// guarded: operators may correct a cheque back to any status.
func (s *ChequeService) TransitionCheque(ctx context.Context, req TransitionChequeRequest) (*InvoiceTotals, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cheque", "transition",
		telemetry.WithAttribute(telemetry.SpanAttrPaymentID, req.PaymentID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrChequeStatus, req.Status.String()),
	)
	defer span.End()

	if !req.Status.IsValid() {
		err := shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid cheque status: %s", req.Status))
		telemetry.RecordError(span, err)
		return nil, err
	}

	var totals *InvoiceTotals
	var settled []shared.AggregateRoot
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, req.TenantID, req.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to load payment: %w", err)
		}
		if payment == nil {
			return shared.ErrNotFound
		}

		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, req.TenantID, payment.InvoiceID)
		if err != nil {
			return fmt.Errorf("failed to load invoice: %w", err)
		}
		if invoice == nil {
			return shared.ErrNotFound
		}

		if err := payment.TransitionCheque(billing.ChequeTransition{
			Status:        req.Status,
			ClearanceDate: req.ClearanceDate,
			BounceReason:  req.BounceReason,
			BounceCharges: req.BounceCharges,
		}); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		payments, err := repos.PaymentRepo().FindByInvoice(ctx, req.TenantID, invoice.ID)
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

		t := totalsFromInvoice(invoice)
		totals = &t
		settled = append(settled, payment, invoice)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishDomainEvents(ctx, s.eventPublisher, settled...)

	s.logger.Info("cheque status changed",
		zap.String("payment_id", req.PaymentID.String()),
		zap.String("status", req.Status.String()),
	)
	return totals, nil
}

// ListCheques returns cheque payments for the tenant, optionally
// filtered by lifecycle status and customer
func (s *ChequeService) ListCheques(ctx context.Context, tenantID uuid.UUID, filter billing.ChequeFilter) ([]PaymentView, int64, error) {
	payments, total, err := s.paymentRepo.FindCheques(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cheques: %w", err)
	}

	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, viewFromPayment(p))
	}
	return views, total, nil
}
