package billing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockChequeAlertNotifier is a mock notifier for testing
type MockChequeAlertNotifier struct {
	mu     sync.Mutex
	alerts []ChequeAlert
}

func NewMockChequeAlertNotifier() *MockChequeAlertNotifier {
	return &MockChequeAlertNotifier{
		alerts: make([]ChequeAlert, 0),
	}
}

func (n *MockChequeAlertNotifier) SendAlert(ctx context.Context, alert ChequeAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *MockChequeAlertNotifier) GetAlerts() []ChequeAlert {
	n.mu.Lock()
	defer n.mu.Unlock()
	result := make([]ChequeAlert, len(n.alerts))
	copy(result, n.alerts)
	return result
}

func newBouncedChequePayment(t *testing.T, tenantID uuid.UUID) *billing.Payment {
	t.Helper()
	amount := valueobject.NewMoneyLKRFromFloat(300)
	payment, err := billing.NewPayment(
		tenantID, uuid.New(), uuid.New(),
		"PAY-00042", time.Now(), amount,
		billing.PaymentMethodCheque, billing.PaymentTypeAdditional,
		&billing.ChequeDetails{ChequeNumber: "CHQ-009876", BankName: "Sampath Bank"},
	)
	require.NoError(t, err)
	require.NoError(t, payment.TransitionCheque(billing.ChequeTransition{
		Status:        billing.ChequeStatusBounced,
		BounceReason:  "insufficient funds",
		BounceCharges: decimal.NewFromInt(500),
	}))
	return payment
}

func TestChequeBouncedHandler_Handle(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tenantID := uuid.New()

	t.Run("sends alert for bounced cheque", func(t *testing.T) {
		notifier := NewMockChequeAlertNotifier()
		handler := NewChequeBouncedHandler(logger).WithNotifier(notifier)

		payment := newBouncedChequePayment(t, tenantID)
		event := billing.NewChequeStatusChangedEvent(payment, billing.ChequeStatusPending)

		err := handler.Handle(context.Background(), event)
		require.NoError(t, err)

		alerts := notifier.GetAlerts()
		require.Len(t, alerts, 1)
		assert.Equal(t, "PAY-00042", alerts[0].PaymentNumber)
		assert.Equal(t, "CHQ-009876", alerts[0].ChequeNumber)
		assert.Equal(t, tenantID.String(), alerts[0].TenantID)
		assert.Equal(t, "PENDING", alerts[0].PreviousStatus)
	})

	t.Run("ignores non-bounce transitions", func(t *testing.T) {
		notifier := NewMockChequeAlertNotifier()
		handler := NewChequeBouncedHandler(logger).WithNotifier(notifier)

		payment := newBouncedChequePayment(t, tenantID)
		require.NoError(t, payment.TransitionCheque(billing.ChequeTransition{
			Status: billing.ChequeStatusCleared,
		}))
		event := billing.NewChequeStatusChangedEvent(payment, billing.ChequeStatusBounced)

		err := handler.Handle(context.Background(), event)
		require.NoError(t, err)
		assert.Empty(t, notifier.GetAlerts())
	})

	t.Run("rejects unexpected event type", func(t *testing.T) {
		handler := NewChequeBouncedHandler(logger)

		payment := newBouncedChequePayment(t, tenantID)
		event := billing.NewPaymentRecordedEvent(payment)

		err := handler.Handle(context.Background(), event)
		assert.Error(t, err)
	})

	t.Run("handles bounce without notifier", func(t *testing.T) {
		handler := NewChequeBouncedHandler(logger)

		payment := newBouncedChequePayment(t, tenantID)
		event := billing.NewChequeStatusChangedEvent(payment, billing.ChequeStatusPending)

		err := handler.Handle(context.Background(), event)
		assert.NoError(t, err)
	})

	t.Run("event types cover cheque lifecycle", func(t *testing.T) {
		handler := NewChequeBouncedHandler(logger)
		assert.Equal(t, []string{billing.EventTypeChequeStatusChanged}, handler.EventTypes())
	})
}
