package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DebtCategory defines the kind of debt
type DebtCategory string

const (
	DebtCategoryCreditCard   DebtCategory = "credit_card"
	DebtCategoryMortgage     DebtCategory = "mortgage"
	DebtCategoryAutoLoan     DebtCategory = "auto_loan"
	DebtCategoryStudentLoan  DebtCategory = "student_loan"
	DebtCategoryPersonalLoan DebtCategory = "personal_loan"
	DebtCategoryOther        DebtCategory = "other"
)

var debtCategories = map[DebtCategory]bool{
	DebtCategoryCreditCard:   true,
	DebtCategoryMortgage:     true,
	DebtCategoryAutoLoan:     true,
	DebtCategoryStudentLoan:  true,
	DebtCategoryPersonalLoan: true,
	DebtCategoryOther:        true,
}

// MaxTermMonths caps the remaining term a debt can be created with (50 years)
const MaxTermMonths = 600

// Debt represents an outstanding debt owned by a user.
//
// Only RemainingAmount, MonthlyPayment, InterestRate and RemainingMonths take
// part in amortization. The rest is metadata carried along by the caller.
type Debt struct {
	ID              string       `json:"id" db:"id"`
	UserID          int          `json:"user_id" db:"user_id"`
	Name            string       `json:"name" db:"name"`
	Category        DebtCategory `json:"category" db:"category"`
	RemainingAmount float64      `json:"remaining_amount" db:"remaining_amount"`
	MonthlyPayment  float64      `json:"monthly_payment" db:"monthly_payment"`
	InterestRate    float64      `json:"interest_rate" db:"interest_rate"`
	RemainingMonths int          `json:"remaining_months" db:"remaining_months"`
	AutoPay         bool         `json:"auto_pay" db:"auto_pay"`
	NextPaymentDate time.Time    `json:"next_payment_date" db:"next_payment_date"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`

	// PaymentDay is the day of the month payments fall due on
	PaymentDay int `json:"payment_day" db:"payment_day"`

	// Version increases with every stored change; writes must match the version they read
	Version int `json:"version" db:"version"`
}

// IsPaidOff reports whether nothing is left to pay
func (d Debt) IsPaidOff() bool {
	return d.RemainingAmount <= 0
}

// FollowingDueDate returns the due date after NextPaymentDate
func (d Debt) FollowingDueDate() time.Time {
	return AddMonth(d.NextPaymentDate, d.PaymentDay)
}

// Rounded returns a copy with monetary fields rounded to cents
func (d Debt) Rounded() Debt {
	d.RemainingAmount = RoundMoney(d.RemainingAmount)
	d.MonthlyPayment = RoundMoney(d.MonthlyPayment)
	return d
}

// DebtRequest represents a create or update request for a debt
type DebtRequest struct {
	Name            string       `json:"name"`
	Category        DebtCategory `json:"category"`
	RemainingAmount float64      `json:"remaining_amount"`
	MonthlyPayment  float64      `json:"monthly_payment"`
	InterestRate    float64      `json:"interest_rate"`
	RemainingMonths int          `json:"remaining_months"`
	AutoPay         bool         `json:"auto_pay"`
	NextPaymentDate *time.Time   `json:"next_payment_date,omitempty"`
}

// Validate validates debt request data.
// The amortization functions accept any numbers; this is where bad input is rejected.
func (r *DebtRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return NewValidationError("name", "name is required")
	}
	if len(r.Name) > 100 {
		return NewValidationError("name", "name must be at most 100 characters")
	}

	if r.Category == "" {
		r.Category = DebtCategoryOther
	}
	if !debtCategories[r.Category] {
		return NewValidationError("category", "unknown category "+string(r.Category))
	}

	if r.RemainingAmount < 0 {
		return NewValidationError("remaining_amount", "remaining amount cannot be negative")
	}

	if r.MonthlyPayment <= 0 {
		return NewValidationError("monthly_payment", "monthly payment must be positive")
	}

	if r.InterestRate < 0 || r.InterestRate > 100 {
		return NewValidationError("interest_rate", "interest rate must be between 0 and 100")
	}

	if r.RemainingMonths < 0 || r.RemainingMonths > MaxTermMonths {
		return NewValidationError("remaining_months", "remaining months must be between 0 and 600")
	}

	return nil
}

// ToDebt converts DebtRequest to a new Debt owned by userID
func (r *DebtRequest) ToDebt(userID int, now time.Time) *Debt {
	debt := &Debt{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
	r.applyTo(debt, now)
	return debt
}

// ApplyTo overwrites the editable fields of an existing debt
func (r *DebtRequest) ApplyTo(debt *Debt, now time.Time) {
	r.applyTo(debt, now)
	debt.UpdatedAt = now
}

func (r *DebtRequest) applyTo(debt *Debt, now time.Time) {
	debt.Name = r.Name
	debt.Category = r.Category
	debt.RemainingAmount = r.RemainingAmount
	debt.MonthlyPayment = r.MonthlyPayment
	debt.InterestRate = r.InterestRate
	debt.RemainingMonths = r.RemainingMonths
	debt.AutoPay = r.AutoPay

	if r.NextPaymentDate != nil {
		debt.NextPaymentDate = r.NextPaymentDate.UTC()
		debt.PaymentDay = debt.NextPaymentDate.Day()
	} else if debt.NextPaymentDate.IsZero() {
		start := now.UTC()
		debt.PaymentDay = start.Day()
		debt.NextPaymentDate = AddMonth(start, start.Day())
	}
}

// AddMonth returns the date in the month after from that falls on day.
// A day past the end of that month is clamped to its last day, so a debt due
// on the 31st is due Feb 28 and then Mar 31 again. A day below 1 means from's own day.
func AddMonth(from time.Time, day int) time.Time {
	if day < 1 {
		day = from.Day()
	}

	first := time.Date(from.Year(), from.Month()+1, 1,
		from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
	if last := daysInMonth(first); day > last {
		day = last
	}

	return first.AddDate(0, 0, day-1)
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
