package billing

import (
	"context"
	"testing"
	"time"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type chequeServiceFixture struct {
	invoiceRepo *MockInvoiceRepository
	paymentRepo *MockPaymentRepository
	service     *ChequeService
}

func newChequeServiceFixture() *chequeServiceFixture {
	invoiceRepo := new(MockInvoiceRepository)
	paymentRepo := new(MockPaymentRepository)
	scope := &stubTransactionScope{invoiceRepo: invoiceRepo, paymentRepo: paymentRepo}
	return &chequeServiceFixture{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		service:     NewChequeService(scope, paymentRepo, zap.NewNop()),
	}
}

func chequePaymentFor(t *testing.T, inv *billing.Invoice, amount float64) *billing.Payment {
	t.Helper()
	p, err := billing.NewPayment(inv.TenantID, inv.ID, inv.CustomerID, "PAY-00001", time.Now(),
		valueobject.NewMoneyLKRFromFloat(amount), billing.PaymentMethodCheque,
		billing.PaymentTypeAdditional,
		&billing.ChequeDetails{ChequeNumber: "CHQ-55", ChequeDate: time.Now()})
	require.NoError(t, err)
	return p
}

func TestTransitionChequeService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("clearing a cheque moves its amount into paid", func(t *testing.T) {
		f := newChequeServiceFixture()
		inv := confirmedInvoice(t, tenantID, 1000, time.Now())
		payment := chequePaymentFor(t, inv, 300)

		f.paymentRepo.On("FindByID", ctx, tenantID, payment.ID).Return(payment, nil)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, tenantID, inv.ID).Return(inv, nil)
		f.paymentRepo.On("Save", ctx, payment).Return(nil)
		f.paymentRepo.On("FindByInvoice", ctx, tenantID, inv.ID).Return([]*billing.Payment{payment}, nil)
		f.invoiceRepo.On("Save", ctx, inv).Return(nil)

		totals, err := f.service.TransitionCheque(ctx, TransitionChequeRequest{
			TenantID:  tenantID,
			PaymentID: payment.ID,
			Status:    billing.ChequeStatusCleared,
		})
		require.NoError(t, err)

		assert.Equal(t, billing.ChequeStatusCleared, payment.Cheque.Status)
		assert.Equal(t, "300", totals.PaidAmount.String())
		assert.Equal(t, "700", totals.BalanceAmount.String())
		assert.True(t, totals.PendingChequeAmount.IsZero())
		f.paymentRepo.AssertExpectations(t)
		f.invoiceRepo.AssertExpectations(t)
	})

	t.Run("bouncing removes the amount from pending", func(t *testing.T) {
		f := newChequeServiceFixture()
		inv := confirmedInvoice(t, tenantID, 1000, time.Now())
		payment := chequePaymentFor(t, inv, 300)

		f.paymentRepo.On("FindByID", ctx, tenantID, payment.ID).Return(payment, nil)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, tenantID, inv.ID).Return(inv, nil)
		f.paymentRepo.On("Save", ctx, payment).Return(nil)
		f.paymentRepo.On("FindByInvoice", ctx, tenantID, inv.ID).Return([]*billing.Payment{payment}, nil)
		f.invoiceRepo.On("Save", ctx, inv).Return(nil)

		totals, err := f.service.TransitionCheque(ctx, TransitionChequeRequest{
			TenantID:      tenantID,
			PaymentID:     payment.ID,
			Status:        billing.ChequeStatusBounced,
			BounceReason:  "refer to drawer",
			BounceCharges: decimal.NewFromInt(500),
		})
		require.NoError(t, err)

		assert.True(t, totals.PaidAmount.IsZero())
		assert.True(t, totals.PendingChequeAmount.IsZero())
		assert.Equal(t, "1000", totals.BalanceAmount.String())
		assert.Equal(t, billing.PaymentStatusUnpaid, totals.PaymentStatus)
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newChequeServiceFixture()
		paymentID := uuid.New()
		f.paymentRepo.On("FindByID", ctx, tenantID, paymentID).Return(nil, nil)

		_, err := f.service.TransitionCheque(ctx, TransitionChequeRequest{
			TenantID:  tenantID,
			PaymentID: paymentID,
			Status:    billing.ChequeStatusCleared,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("invalid status rejected before any read", func(t *testing.T) {
		f := newChequeServiceFixture()
		_, err := f.service.TransitionCheque(ctx, TransitionChequeRequest{
			TenantID:  tenantID,
			PaymentID: uuid.New(),
			Status:    billing.ChequeStatus("SHREDDED"),
		})
		assert.Error(t, err)
		f.paymentRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-cheque payment rejected", func(t *testing.T) {
		f := newChequeServiceFixture()
		inv := confirmedInvoice(t, tenantID, 500, time.Now())
		payment := historyPayment(t, inv, 100, billing.PaymentMethodCash)

		f.paymentRepo.On("FindByID", ctx, tenantID, payment.ID).Return(payment, nil)
		f.invoiceRepo.On("FindByIDForUpdate", ctx, tenantID, inv.ID).Return(inv, nil)

		_, err := f.service.TransitionCheque(ctx, TransitionChequeRequest{
			TenantID:  tenantID,
			PaymentID: payment.ID,
			Status:    billing.ChequeStatusCleared,
		})
		assert.Error(t, err)
		f.paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestListCheques(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newChequeServiceFixture()
	inv := confirmedInvoice(t, tenantID, 500, time.Now())
	payment := chequePaymentFor(t, inv, 250)

	status := billing.ChequeStatusPending
	filter := billing.ChequeFilter{Status: &status}
	f.paymentRepo.On("FindCheques", ctx, tenantID, filter).Return([]*billing.Payment{payment}, int64(1), nil)

	views, total, err := f.service.ListCheques(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.Equal(t, payment.PaymentNumber, views[0].PaymentNumber)
	require.NotNil(t, views[0].Cheque)
	assert.Equal(t, "CHQ-55", views[0].Cheque.ChequeNumber)
}

// capturePublisher collects events published by a service under test
type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturePublisher) eventTypes() []string {
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

func TestTransitionChequePublishesEvents(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	f := newChequeServiceFixture()
	publisher := &capturePublisher{}
	f.service.SetEventPublisher(publisher)

	inv := confirmedInvoice(t, tenantID, 1000, time.Now())
	inv.ClearDomainEvents()
	payment := chequePaymentFor(t, inv, 300)
	payment.ClearDomainEvents()

	f.paymentRepo.On("FindByID", ctx, tenantID, payment.ID).Return(payment, nil)
	f.invoiceRepo.On("FindByIDForUpdate", ctx, tenantID, inv.ID).Return(inv, nil)
	f.paymentRepo.On("Save", ctx, payment).Return(nil)
	f.paymentRepo.On("FindByInvoice", ctx, tenantID, inv.ID).Return([]*billing.Payment{payment}, nil)
	f.invoiceRepo.On("Save", ctx, inv).Return(nil)

	_, err := f.service.TransitionCheque(ctx, TransitionChequeRequest{
		TenantID:  tenantID,
		PaymentID: payment.ID,
		Status:    billing.ChequeStatusCleared,
	})
	require.NoError(t, err)

	types := publisher.eventTypes()
	assert.Contains(t, types, billing.EventTypeChequeStatusChanged)
	assert.Contains(t, types, billing.EventTypeInvoiceSettled)
	assert.Empty(t, payment.GetDomainEvents())
	assert.Empty(t, inv.GetDomainEvents())
}
