package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, DebtSummary{}, summary)
	assert.Equal(t, 0.0, summary.TotalDebt)
	assert.Equal(t, 0.0, summary.TotalMonthlyPayments)
	assert.Equal(t, 0.0, summary.TotalInterestPerMonth)
	assert.Equal(t, 0.0, summary.AveragePayoffMonths)
}

func TestSummarize_Additivity(t *testing.T) {
	debts := []Debt{
		testDebt(1_000_000, 100_000, 12, 12),
		testDebt(5_000, 150, 24, 48),
		testDebt(300, 50, 0, 7),
	}

	summary := Summarize(debts)

	assert.Equal(t, 3, summary.DebtCount)
	assert.InDelta(t, 1_005_300, summary.TotalDebt, tolerance)
	assert.InDelta(t, 100_200, summary.TotalMonthlyPayments, tolerance)
	// 10,000 + 100 + 0
	assert.InDelta(t, 10_100, summary.TotalInterestPerMonth, tolerance)
	assert.InDelta(t, 67.0/3.0, summary.AveragePayoffMonths, tolerance)
}

func TestSummarize_InterestIsCurrentBalanceAccrual(t *testing.T) {
	// GIVEN: A debt after one payment was applied
	debt := testDebt(1_000_000, 100_000, 12, 12)
	paid, _ := ApplyPayment(debt, fixedTime)

	// THEN: Summary interest follows the current balance, not the original schedule
	assert.InDelta(t, 9_100, Summarize([]Debt{paid}).TotalInterestPerMonth, tolerance)
	assert.InDelta(t, 10_000, ComputeSchedule(debt)[0].MonthlyInterest, tolerance)
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	debts := []Debt{testDebt(100, 10, 5, 10)}
	original := debts[0]

	Summarize(debts)

	assert.Equal(t, original, debts[0])
}

func TestDebtSummary_Rounded(t *testing.T) {
	summary := DebtSummary{
		TotalDebt:             100.005,
		TotalMonthlyPayments:  10.234,
		TotalInterestPerMonth: 0.416666,
		AveragePayoffMonths:   22.333333,
	}.Rounded()

	assert.Equal(t, 100.01, summary.TotalDebt)
	assert.Equal(t, 10.23, summary.TotalMonthlyPayments)
	assert.Equal(t, 0.42, summary.TotalInterestPerMonth)
	assert.Equal(t, 22.33, summary.AveragePayoffMonths)
}

func TestNewScheduleResponse(t *testing.T) {
	debt := testDebt(1_000, 300, 0, 12)

	response := NewScheduleResponse(debt, ComputeSchedule(debt))

	require.Len(t, response.Entries, 4)
	assert.Equal(t, debt.ID, response.DebtID)
	assert.True(t, response.Amortizing)
	assert.Equal(t, 4, response.Totals.Months)
	assert.Equal(t, 1_000.0, response.Totals.TotalPrincipal)
	assert.Equal(t, 1_000.0, response.Totals.TotalPaid)
	assert.Equal(t, 0.0, response.Totals.TotalInterest)
	assert.True(t, response.Totals.PaidOff)
}

func TestCalculateScheduleTotals_EmptyScheduleWithBalance(t *testing.T) {
	debt := testDebt(1_000, 300, 0, 0)

	totals := CalculateScheduleTotals(debt, ComputeSchedule(debt))

	assert.Equal(t, 0, totals.Months)
	assert.Equal(t, 1_000.0, totals.FinalBalance)
	assert.False(t, totals.PaidOff)
}

func TestCombineProjections(t *testing.T) {
	projections := []DebtProjection{
		ProjectDebt(testDebt(1_000, 300, 0, 12)),
		ProjectDebt(testDebt(1_000_000, 100_000, 12, 12)),
		ProjectDebt(testDebt(10_000, 100, 12, 6)),
	}

	portfolio := CombineProjections(projections)

	require.Len(t, portfolio.Debts, 3)
	assert.Equal(t, 11, portfolio.DebtFreeMonths)
	assert.False(t, portfolio.AllPaidOff)
	assert.False(t, portfolio.Debts[2].Amortizing)
	assert.Equal(t, 6, portfolio.Debts[2].Months)
	assert.InDelta(t,
		projections[0].TotalInterest+projections[1].TotalInterest+projections[2].TotalInterest,
		portfolio.TotalProjectedInterest, 0.01)
}

func TestCombineProjections_Empty(t *testing.T) {
	portfolio := CombineProjections(nil)

	assert.Equal(t, 0, portfolio.DebtFreeMonths)
	assert.True(t, portfolio.AllPaidOff)
	assert.Equal(t, 0.0, portfolio.TotalProjectedInterest)
}
