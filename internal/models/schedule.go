package models

// ScheduleTotals represents summary statistics for a computed schedule
type ScheduleTotals struct {
	Months         int     `json:"months"`
	TotalPrincipal float64 `json:"total_principal"`
	TotalInterest  float64 `json:"total_interest"`
	TotalPaid      float64 `json:"total_paid"`
	FinalBalance   float64 `json:"final_balance"`
	PaidOff        bool    `json:"paid_off"`
}

// ScheduleResponse represents a debt's schedule for API responses
type ScheduleResponse struct {
	DebtID     string          `json:"debt_id"`
	Amortizing bool            `json:"amortizing"`
	Entries    []ScheduleEntry `json:"entries"`
	Totals     ScheduleTotals  `json:"totals"`
}

// CalculateScheduleTotals calculates summary statistics for a schedule.
// An empty schedule of a debt with a balance left is not paid off.
func CalculateScheduleTotals(debt Debt, schedule []ScheduleEntry) ScheduleTotals {
	totals := ScheduleTotals{
		Months:       len(schedule),
		FinalBalance: debt.RemainingAmount,
	}

	for _, entry := range schedule {
		totals.TotalPrincipal += entry.Principal
		totals.TotalInterest += entry.MonthlyInterest
		// The period that clears the balance only pays what is owed
		totals.TotalPaid += entry.Principal + entry.MonthlyInterest
		totals.FinalBalance = entry.Balance
	}

	totals.PaidOff = totals.FinalBalance <= 0
	return totals
}

// NewScheduleResponse builds the response for a debt and its schedule,
// rounding every monetary value to cents.
func NewScheduleResponse(debt Debt, schedule []ScheduleEntry) *ScheduleResponse {
	totals := CalculateScheduleTotals(debt, schedule)

	entries := make([]ScheduleEntry, len(schedule))
	for i, entry := range schedule {
		entries[i] = ScheduleEntry{
			Month:           entry.Month,
			Payment:         RoundMoney(entry.Payment),
			MonthlyInterest: RoundMoney(entry.MonthlyInterest),
			Principal:       RoundMoney(entry.Principal),
			Balance:         RoundMoney(entry.Balance),
		}
	}

	totals.TotalPrincipal = RoundMoney(totals.TotalPrincipal)
	totals.TotalInterest = RoundMoney(totals.TotalInterest)
	totals.TotalPaid = RoundMoney(totals.TotalPaid)
	totals.FinalBalance = RoundMoney(totals.FinalBalance)

	return &ScheduleResponse{
		DebtID:     debt.ID,
		Amortizing: IsAmortizing(debt),
		Entries:    entries,
		Totals:     totals,
	}
}

// DebtProjection represents the schedule-based outlook of one debt
type DebtProjection struct {
	DebtID        string  `json:"debt_id"`
	Name          string  `json:"name"`
	Months        int     `json:"months"`
	TotalInterest float64 `json:"total_interest"`
	TotalPaid     float64 `json:"total_paid"`
	PaidOff       bool    `json:"paid_off"`
	Amortizing    bool    `json:"amortizing"`
}

// PortfolioProjection represents schedule-based figures across all debts.
// Unlike DebtSummary it runs every schedule to its end.
type PortfolioProjection struct {
	Debts                  []DebtProjection `json:"debts"`
	DebtFreeMonths         int              `json:"debt_free_months"`
	TotalProjectedInterest float64          `json:"total_projected_interest"`
	AllPaidOff             bool             `json:"all_paid_off"`
}

// ProjectDebt computes the projection of a single debt
func ProjectDebt(debt Debt) DebtProjection {
	totals := CalculateScheduleTotals(debt, ComputeSchedule(debt))
	return DebtProjection{
		DebtID:        debt.ID,
		Name:          debt.Name,
		Months:        totals.Months,
		TotalInterest: RoundMoney(totals.TotalInterest),
		TotalPaid:     RoundMoney(totals.TotalPaid),
		PaidOff:       totals.PaidOff,
		Amortizing:    IsAmortizing(debt),
	}
}

// CombineProjections aggregates per-debt projections in the given order
func CombineProjections(projections []DebtProjection) *PortfolioProjection {
	portfolio := &PortfolioProjection{
		Debts:      projections,
		AllPaidOff: true,
	}

	var interest float64
	for _, p := range projections {
		interest += p.TotalInterest
		if p.PaidOff {
			portfolio.DebtFreeMonths = max(portfolio.DebtFreeMonths, p.Months)
		} else {
			portfolio.AllPaidOff = false
		}
	}
	portfolio.TotalProjectedInterest = RoundMoney(interest)

	return portfolio
}
