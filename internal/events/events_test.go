package events

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debt-service/internal/models"
)

type fakeAck struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (a *fakeAck) Ack(multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAck) Nack(multiple, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testNotification() *models.PaymentNotification {
	return &models.PaymentNotification{
		UserID:   3,
		Email:    "alice@example.com",
		DebtID:   "debt-1",
		DebtName: "Car loan",
		Payment: models.DebtPayment{
			ID:               "pay-1",
			DebtID:           "debt-1",
			Amount:           310.5,
			PaymentDate:      time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
			PrincipalAmount:  300,
			InterestAmount:   10.5,
			RemainingBalance: 700,
		},
		RemainingMonths: 5,
	}
}

func TestPaymentEvent_JSON(t *testing.T) {
	event := NewPaymentEvent(testNotification())

	body, err := event.ToJSON()
	require.NoError(t, err)

	decoded, err := PaymentEventFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, "debt-1", decoded.DebtID)
	assert.Equal(t, "pay-1", decoded.Payment.ID)
	assert.Equal(t, 700.0, decoded.Payment.RemainingBalance)
	assert.False(t, decoded.Timestamp.IsZero())
	assert.Contains(t, string(body), `"debt_name":"Car loan"`)
}

func TestDispatch_AcksHandledEvent(t *testing.T) {
	body, _ := NewPaymentEvent(testNotification()).ToJSON()
	ack := &fakeAck{}

	var got *PaymentEvent
	dispatch(context.Background(), quietLogger(), body, ack, func(ctx context.Context, e *PaymentEvent) error {
		got = e
		return nil
	})

	require.NotNil(t, got)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
}

func TestDispatch_RequeuesOnHandlerError(t *testing.T) {
	body, _ := NewPaymentEvent(testNotification()).ToJSON()
	ack := &fakeAck{}

	dispatch(context.Background(), quietLogger(), body, ack, func(ctx context.Context, e *PaymentEvent) error {
		return errors.New("smtp unavailable")
	})

	assert.True(t, ack.nacked)
	assert.True(t, ack.requeued)
	assert.False(t, ack.acked)
}

func TestDispatch_DropsMalformedMessage(t *testing.T) {
	ack := &fakeAck{}
	called := false

	dispatch(context.Background(), quietLogger(), []byte("{not json"), ack, func(ctx context.Context, e *PaymentEvent) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
}
