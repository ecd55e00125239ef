package cache

import (
	"context"
	"fmt"
	"strconv"

	"debt-service/internal/models"
)

// ScheduleCache stores encoded schedules by key
type ScheduleCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// ScheduleKey returns the cache key of a debt's schedule.
// The key covers every input of the amortization, so a payment or an edit
// produces a new key and old entries simply expire.
func ScheduleKey(debt *models.Debt) string {
	return fmt.Sprintf("schedule:%s:%s:%s:%s:%d",
		debt.ID,
		strconv.FormatFloat(debt.RemainingAmount, 'g', -1, 64),
		strconv.FormatFloat(debt.MonthlyPayment, 'g', -1, 64),
		strconv.FormatFloat(debt.InterestRate, 'g', -1, 64),
		debt.RemainingMonths,
	)
}
