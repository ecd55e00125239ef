package events

import (
	"encoding/json"
	"time"

	"debt-service/internal/models"
)

// PaymentEvent is published after a payment has been applied to a debt
type PaymentEvent struct {
	models.PaymentNotification
	Timestamp time.Time `json:"timestamp"`
}

// NewPaymentEvent creates an event for the notification
func NewPaymentEvent(n *models.PaymentNotification) *PaymentEvent {
	return &PaymentEvent{
		PaymentNotification: *n,
		Timestamp:           time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *PaymentEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PaymentEventFromJSON creates an event from JSON bytes
func PaymentEventFromJSON(data []byte) (*PaymentEvent, error) {
	var event PaymentEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
