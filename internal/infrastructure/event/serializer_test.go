package event_test

import (
	"testing"
	"time"

	"github.com/factoryerp/backend/internal/domain/billing"
	"github.com/factoryerp/backend/internal/domain/partner"
	"github.com/factoryerp/backend/internal/domain/shared"
	"github.com/factoryerp/backend/internal/domain/shared/valueobject"
	"github.com/factoryerp/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordedPayment(t *testing.T) *billing.Payment {
	t.Helper()
	payment, err := billing.NewPayment(
		uuid.New(), uuid.New(), uuid.New(),
		"PAY-00007", time.Now(),
		valueobject.NewMoneyLKRFromFloat(2500),
		billing.PaymentMethodCash, billing.PaymentTypeAdditional,
		nil,
	)
	require.NoError(t, err)
	return payment
}

func TestSerializerRoundTripsPaymentRecorded(t *testing.T) {
	serializer := event.NewEventSerializer()
	serializer.Register(billing.EventTypePaymentRecorded, &billing.PaymentRecordedEvent{})

	payment := newRecordedPayment(t)
	original := billing.NewPaymentRecordedEvent(payment)

	data, err := serializer.Serialize(original)
	require.NoError(t, err)

	decoded, err := serializer.Deserialize(billing.EventTypePaymentRecorded, data)
	require.NoError(t, err)

	recorded, ok := decoded.(*billing.PaymentRecordedEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), recorded.EventID())
	assert.Equal(t, original.AggregateID(), recorded.AggregateID())
	assert.Equal(t, "PAY-00007", recorded.PaymentNumber)
}

func TestSerializerUnknownType(t *testing.T) {
	serializer := event.NewEventSerializer()

	_, err := serializer.Deserialize("billing.unknown", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestSerializerInvalidPayload(t *testing.T) {
	serializer := event.NewEventSerializer()
	serializer.Register(billing.EventTypeInvoiceSettled, &billing.InvoiceSettledEvent{})

	_, err := serializer.Deserialize(billing.EventTypeInvoiceSettled, []byte(`not json`))
	require.Error(t, err)
}

func TestSerializerIsRegistered(t *testing.T) {
	serializer := event.NewEventSerializer()
	assert.False(t, serializer.IsRegistered(billing.EventTypePaymentRecorded))

	serializer.Register(billing.EventTypePaymentRecorded, &billing.PaymentRecordedEvent{})
	assert.True(t, serializer.IsRegistered(billing.EventTypePaymentRecorded))
}

func TestRegisterAllEventsCoversLedgerEvents(t *testing.T) {
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)

	for _, eventType := range []string{
		billing.EventTypePaymentRecorded,
		billing.EventTypeChequeStatusChanged,
		billing.EventTypeInvoiceSettled,
		partner.EventTypeCustomerCreated,
	} {
		assert.True(t, serializer.IsRegistered(eventType), eventType)
	}
}

var _ shared.DomainEvent = (*billing.PaymentRecordedEvent)(nil)
