package models

// PaymentNotification carries everything needed to tell a user about an applied payment
type PaymentNotification struct {
	UserID          int         `json:"user_id"`
	Email           string      `json:"email"`
	RecipientName   string      `json:"recipient_name"`
	DebtID          string      `json:"debt_id"`
	DebtName        string      `json:"debt_name"`
	Payment         DebtPayment `json:"payment"`
	RemainingMonths int         `json:"remaining_months"`
	PaidOff         bool        `json:"paid_off"`
	Automatic       bool        `json:"automatic"`
}
