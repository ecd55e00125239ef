package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ScheduleEntry represents one period of an amortization schedule
type ScheduleEntry struct {
	Month           int     `json:"month"`
	Payment         float64 `json:"payment"`
	MonthlyInterest float64 `json:"monthly_interest"`
	Principal       float64 `json:"principal"`
	Balance         float64 `json:"balance"`
}

// MonthlyRate converts an annual percentage rate to a monthly fraction
func MonthlyRate(annualRate float64) float64 {
	return annualRate / 100 / 12
}

// periodSplit returns the interest and principal parts of one payment made
// against balance. Principal is capped by the balance but never floored.
func periodSplit(balance, payment, monthlyRate float64) (interest, principal float64) {
	interest = balance * monthlyRate
	principal = math.Min(payment-interest, balance)
	return interest, principal
}

// ComputeSchedule generates the month-by-month payoff schedule for a debt.
//
// The schedule stops after RemainingMonths periods or as soon as the balance
// reaches zero, whichever comes first. The debt is not modified.
func ComputeSchedule(debt Debt) []ScheduleEntry {
	schedule := make([]ScheduleEntry, 0, scheduleCapacity(debt.RemainingMonths))

	balance := debt.RemainingAmount
	monthlyRate := MonthlyRate(debt.InterestRate)

	for month := 1; month <= debt.RemainingMonths && balance > 0; month++ {
		interest, principal := periodSplit(balance, debt.MonthlyPayment, monthlyRate)
		balance -= principal

		schedule = append(schedule, ScheduleEntry{
			Month:           month,
			Payment:         debt.MonthlyPayment,
			MonthlyInterest: interest,
			Principal:       principal,
			Balance:         math.Max(0, balance),
		})
	}

	return schedule
}

func scheduleCapacity(months int) int {
	if months < 0 {
		return 0
	}
	if months > MaxTermMonths {
		return MaxTermMonths
	}
	return months
}

// ApplyPayment moves a debt one period forward.
//
// It returns the updated debt together with the payment record for that
// period, stamped with at. Persisting either value is up to the caller.
func ApplyPayment(debt Debt, at time.Time) (Debt, DebtPayment) {
	interest, principal := periodSplit(debt.RemainingAmount, debt.MonthlyPayment, MonthlyRate(debt.InterestRate))

	next := debt
	next.RemainingAmount = math.Max(0, debt.RemainingAmount-principal)
	next.RemainingMonths = max(0, debt.RemainingMonths-1)

	payment := DebtPayment{
		ID:               uuid.NewString(),
		DebtID:           debt.ID,
		Amount:           principal + interest,
		PaymentDate:      at,
		PrincipalAmount:  principal,
		InterestAmount:   interest,
		RemainingBalance: next.RemainingAmount,
	}

	return next, payment
}

// IsAmortizing reports whether the monthly payment makes progress on the balance.
// A debt whose payment does not exceed its first-period interest never reaches zero.
func IsAmortizing(debt Debt) bool {
	if debt.RemainingAmount <= 0 {
		return true
	}
	return debt.MonthlyPayment > debt.RemainingAmount*MonthlyRate(debt.InterestRate)
}
