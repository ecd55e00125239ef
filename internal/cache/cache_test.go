package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"debt-service/internal/models"
)

func TestScheduleKey_ChangesWithAmortizationInputs(t *testing.T) {
	debt := &models.Debt{ID: "d1", RemainingAmount: 1000, MonthlyPayment: 100, InterestRate: 5, RemainingMonths: 12}
	key := ScheduleKey(debt)

	renamed := *debt
	renamed.Name = "Renamed"
	assert.Equal(t, key, ScheduleKey(&renamed))

	paid, _ := models.ApplyPayment(*debt, time.Now())
	assert.NotEqual(t, key, ScheduleKey(&paid))

	faster := *debt
	faster.MonthlyPayment = 200
	assert.NotEqual(t, key, ScheduleKey(&faster))
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	assert.NoError(t, c.Set(ctx, "a", []byte("1")))
	value, ok := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), value)

	assert.NoError(t, c.Set(ctx, "a", []byte("2")))
	value, _ = c.Get(ctx, "a")
	assert.Equal(t, []byte("2"), value)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(10, time.Minute)
	c.now = func() time.Time { return now }

	assert.NoError(t, c.Set(ctx, "a", []byte("1")))

	now = now.Add(2 * time.Minute)
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, time.Minute)

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.Get(ctx, "a")
	c.Set(ctx, "c", []byte("3"))

	_, okA := c.Get(ctx, "a")
	_, okB := c.Get(ctx, "b")
	_, okC := c.Get(ctx, "c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
}
