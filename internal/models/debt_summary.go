package models

// DebtSummary represents aggregate figures across a portfolio of debts
type DebtSummary struct {
	TotalDebt             float64 `json:"total_debt"`
	TotalMonthlyPayments  float64 `json:"total_monthly_payments"`
	TotalInterestPerMonth float64 `json:"total_interest_per_month"`
	AveragePayoffMonths   float64 `json:"average_payoff_months"`
	DebtCount             int     `json:"debt_count"`
}

// Summarize aggregates a collection of debts.
//
// TotalInterestPerMonth is the interest that would accrue next period at the
// current balances. It is not taken from any schedule.
func Summarize(debts []Debt) DebtSummary {
	summary := DebtSummary{DebtCount: len(debts)}
	if len(debts) == 0 {
		return summary
	}

	totalMonths := 0
	for _, debt := range debts {
		summary.TotalDebt += debt.RemainingAmount
		summary.TotalMonthlyPayments += debt.MonthlyPayment
		summary.TotalInterestPerMonth += debt.RemainingAmount * MonthlyRate(debt.InterestRate)
		totalMonths += debt.RemainingMonths
	}
	summary.AveragePayoffMonths = float64(totalMonths) / float64(len(debts))

	return summary
}

// Rounded returns a copy with monetary fields rounded to cents
func (s DebtSummary) Rounded() DebtSummary {
	s.TotalDebt = RoundMoney(s.TotalDebt)
	s.TotalMonthlyPayments = RoundMoney(s.TotalMonthlyPayments)
	s.TotalInterestPerMonth = RoundMoney(s.TotalInterestPerMonth)
	s.AveragePayoffMonths = RoundMoney(s.AveragePayoffMonths)
	return s
}
