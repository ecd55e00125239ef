package models

import (
	"time"
)

// DebtPayment represents a payment applied to a debt.
// Records are kept for history display only; schedules are never rebuilt from them.
type DebtPayment struct {
	ID               string    `json:"id" db:"id"`
	DebtID           string    `json:"debt_id" db:"debt_id"`
	Amount           float64   `json:"amount" db:"amount"`
	PaymentDate      time.Time `json:"payment_date" db:"payment_date"`
	PrincipalAmount  float64   `json:"principal_amount" db:"principal_amount"`
	InterestAmount   float64   `json:"interest_amount" db:"interest_amount"`
	RemainingBalance float64   `json:"remaining_balance" db:"remaining_balance"`
}

// PaymentResult is returned after a payment has been applied
type PaymentResult struct {
	Debt    *Debt        `json:"debt"`
	Payment *DebtPayment `json:"payment"`
	PaidOff bool         `json:"paid_off"`
}

// Rounded returns a copy with monetary fields rounded to cents
func (p DebtPayment) Rounded() DebtPayment {
	p.Amount = RoundMoney(p.Amount)
	p.PrincipalAmount = RoundMoney(p.PrincipalAmount)
	p.InterestAmount = RoundMoney(p.InterestAmount)
	p.RemainingBalance = RoundMoney(p.RemainingBalance)
	return p
}
