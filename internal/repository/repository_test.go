package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debt-service/internal/models"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "debts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos, err := NewRepository(db, DriverSQLite)
	require.NoError(t, err)
	return repos
}

func createTestUser(t *testing.T, repos *Repository, username string) int {
	t.Helper()

	now := time.Now().UTC()
	id, err := repos.User.Create(context.Background(), &models.User{
		Username:  username,
		Email:     username + "@example.com",
		PassHash:  "hash",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return id
}

func newDebt(userID int, name string, created time.Time) *models.Debt {
	req := models.DebtRequest{
		Name:            name,
		Category:        models.DebtCategoryPersonalLoan,
		RemainingAmount: 1_000,
		MonthlyPayment:  300,
		InterestRate:    12,
		RemainingMonths: 6,
	}
	return req.ToDebt(userID, created)
}

// =============================================================================
// USERS
// =============================================================================

func TestUserRepository_CreateAndGet(t *testing.T) {
	repos := newTestRepository(t)
	ctx := context.Background()

	id := createTestUser(t, repos, "alice")

	byID, err := repos.User.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := repos.User.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)

	byEmail, err := repos.User.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)

	_, err = repos.User.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repos := newTestRepository(t)
	createTestUser(t, repos, "alice")

	now := time.Now()
	_, err := repos.User.Create(context.Background(), &models.User{
		Username: "alice", Email: "other@example.com", PassHash: "hash", CreatedAt: now, UpdatedAt: now,
	})

	assert.ErrorIs(t, err, models.ErrUserExists)
}

// =============================================================================
// DEBTS
// =============================================================================

func TestDebtRepository_RoundTrip(t *testing.T) {
	repos := newTestRepository(t)
	ctx := context.Background()
	userID := createTestUser(t, repos, "alice")

	created := time.Date(2025, time.March, 3, 10, 0, 0, 123456789, time.UTC)
	debt := newDebt(userID, "Laptop", created)
	debt.AutoPay = true
	require.NoError(t, repos.Debt.Create(ctx, debt))

	got, err := repos.Debt.GetByID(ctx, debt.ID)
	require.NoError(t, err)
	assert.Equal(t, debt.ID, got.ID)
	assert.Equal(t, debt.Category, got.Category)
	assert.Equal(t, debt.RemainingAmount, got.RemainingAmount)
	assert.Equal(t, debt.RemainingMonths, got.RemainingMonths)
	assert.True(t, got.AutoPay)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.True(t, debt.NextPaymentDate.Equal(got.NextPaymentDate))
	assert.Equal(t, 3, got.PaymentDay)
	assert.Equal(t, 1, got.Version)
}

func TestDebtRepository_GetByIDNotFound(t *testing.T) {
	repos := newTestRepository(t)

	_, err := repos.Debt.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrDebtNotFound)
}

func TestDebtRepository_GetByUserID(t *testing.T) {
	repos := newTestRepository(t)
	ctx := context.Background()
	alice := createTestUser(t, repos, "alice")
	bob := createTestUser(t, repos, "bob")

	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Debt.Create(ctx, newDebt(alice, "Older", base)))
	require.NoError(t, repos.Debt.Create(ctx, newDebt(alice, "Newer", base.Add(time.Hour))))
	require.NoError(t, repos.Debt.Create(ctx, newDebt(bob, "Bob's", base)))

	debts, err := repos.Debt.GetByUserID(ctx, alice)
	require.NoError(t, err)
	require.Len(t, debts, 2)
	assert.Equal(t, "Newer", debts[0].Name)
	assert.Equal(t, "Older", debts[1].Name)
}

func TestDebtRepository_UpdateAndDelete(t *testing.T) {
	repos := newTestRepository(t)
	ctx := context.Background()
	userID := createTestUser(t, repos, "alice")

	debt := newDebt(userID, "Laptop", time.Now())
	require.NoError(t, repos.Debt.Create(ctx, debt))

	debt.Name = "Gaming laptop"
	debt.RemainingAmount = 800
	require.NoError(t, repos.Debt.Update(ctx, debt))

	got, err := repos.Debt.GetByID(ctx, debt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gaming laptop", got.Name)
	assert.Equal(t, 800.0, got.RemainingAmount)

	require.NoError(t, repos.Debt.Delete(ctx, debt.ID))
	_, err = repos.Debt.GetByID(ctx, debt.ID)
	assert.ErrorIs(t, err, models.ErrDebtNotFound)

	assert.ErrorIs(t, repos.Debt.Delete(ctx, debt.ID), models.ErrDebtNotFound)
	assert.ErrorIs(t, repos.Debt.Update(ctx, debt), models.ErrDebtNotFound)
}

func TestDebtRepository_RecordPayment(t *testing.T) {
	repos := newTestRepository(t)
	ctx := context.Background()
	userID := createTestUser(t, repos, "alice")

	debt := newDebt(userID, "Laptop", time.Now())
	require.NoError(t, repos.Debt.Create(ctx, debt))

	first := time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC)
	next, payment := models.ApplyPayment(*debt, first)
	require.NoError(t, repos.Debt.RecordPayment(ctx, &next, &payment))

	second := first.AddDate(0, 1, 0)
	next2, payment2 := models.ApplyPayment(next, second)
	require.NoError(t, repos.Debt.RecordPayment(ctx, &next2, &payment2))

	stored, err := repos.Debt.GetByID(ctx, debt.ID)
	require.NoError(t, err)
	assert.InDelta(t, next2.RemainingAmount, stored.RemainingAmount, 1e-9)
	assert.Equal(t, 4, stored.RemainingMonths)

	payments, err := repos.Payment.GetByDebtID(ctx, debt.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, payment2.ID, payments[0].ID, "newest first")
	assert.True(t, second.Equal(payments[0].PaymentDate))
	assert.InDelta(t, payment.PrincipalAmount, payments[1].PrincipalAmount, 1e-9)
}

func TestDebtRepository_RecordPaymentRollsBackForMissingDebt(t *testing.T) {
	repos := newTestRepository(t)
	ctx := context.Background()

	ghost := newDebt(1, "Ghost", time.Now())
	next, payment := models.ApplyPayment(*ghost, time.Now())

	err := repos.Debt.RecordPayment(ctx, &next, &payment)
	assert.ErrorIs(t, err, models.ErrDebtNotFound)

	payments, err := repos.Payment.GetByDebtID(ctx, ghost.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestDebtRepository_RecordPaymentRejectsStaleDebt(t *testing.T) {
	repos := newTestRepository(t)
	ctx := context.Background()
	userID := createTestUser(t, repos, "alice")

	debt := newDebt(userID, "Laptop", time.Now())
	require.NoError(t, repos.Debt.Create(ctx, debt))

	// Two writers read the same state
	readA, err := repos.Debt.GetByID(ctx, debt.ID)
	require.NoError(t, err)
	readB, err := repos.Debt.GetByID(ctx, debt.ID)
	require.NoError(t, err)

	at := time.Date(2025, time.April, 1, 8, 0, 0, 0, time.UTC)
	nextA, paymentA := models.ApplyPayment(*readA, at)
	nextB, paymentB := models.ApplyPayment(*readB, at)

	require.NoError(t, repos.Debt.RecordPayment(ctx, &nextA, &paymentA))
	err = repos.Debt.RecordPayment(ctx, &nextB, &paymentB)
	assert.ErrorIs(t, err, models.ErrDebtChanged)

	stored, err := repos.Debt.GetByID(ctx, debt.ID)
	require.NoError(t, err)
	assert.InDelta(t, nextA.RemainingAmount, stored.RemainingAmount, 1e-9)
	assert.Equal(t, 5, stored.RemainingMonths)
	assert.Equal(t, 2, stored.Version)

	payments, err := repos.Payment.GetByDebtID(ctx, debt.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, paymentA.ID, payments[0].ID)
	assert.InDelta(t, readA.RemainingAmount-stored.RemainingAmount, payments[0].PrincipalAmount, 1e-9)
}

func TestDebtRepository_UpdateRejectsStaleVersion(t *testing.T) {
	repos := newTestRepository(t)
	ctx := context.Background()
	userID := createTestUser(t, repos, "alice")

	debt := newDebt(userID, "Laptop", time.Now())
	require.NoError(t, repos.Debt.Create(ctx, debt))

	first, err := repos.Debt.GetByID(ctx, debt.ID)
	require.NoError(t, err)
	second, err := repos.Debt.GetByID(ctx, debt.ID)
	require.NoError(t, err)

	first.Name = "Work laptop"
	require.NoError(t, repos.Debt.Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	second.Name = "Gaming laptop"
	assert.ErrorIs(t, repos.Debt.Update(ctx, second), models.ErrDebtChanged)

	stored, err := repos.Debt.GetByID(ctx, debt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work laptop", stored.Name)

	// The caller's copy stays current after a successful write
	first.Name = "Old laptop"
	require.NoError(t, repos.Debt.Update(ctx, first))
}

func TestDebtRepository_DeleteRemovesPayments(t *testing.T) {
	repos := newTestRepository(t)
	ctx := context.Background()
	userID := createTestUser(t, repos, "alice")

	debt := newDebt(userID, "Laptop", time.Now())
	require.NoError(t, repos.Debt.Create(ctx, debt))
	next, payment := models.ApplyPayment(*debt, time.Now())
	require.NoError(t, repos.Debt.RecordPayment(ctx, &next, &payment))

	require.NoError(t, repos.Debt.Delete(ctx, debt.ID))

	payments, err := repos.Payment.GetByDebtID(ctx, debt.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestDebtRepository_GetDueAutoPay(t *testing.T) {
	repos := newTestRepository(t)
	ctx := context.Background()
	userID := createTestUser(t, repos, "alice")
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	due := newDebt(userID, "Due", now)
	due.AutoPay = true
	due.NextPaymentDate = now.Add(-time.Hour)

	dueWithFraction := newDebt(userID, "Due later in the second", now)
	dueWithFraction.AutoPay = true
	dueWithFraction.NextPaymentDate = now.Add(-500 * time.Millisecond)

	future := newDebt(userID, "Future", now)
	future.AutoPay = true
	future.NextPaymentDate = now.Add(time.Hour)

	manual := newDebt(userID, "Manual", now)
	manual.NextPaymentDate = now.Add(-time.Hour)

	paidOff := newDebt(userID, "Paid off", now)
	paidOff.AutoPay = true
	paidOff.RemainingAmount = 0
	paidOff.NextPaymentDate = now.Add(-time.Hour)

	for _, d := range []*models.Debt{due, dueWithFraction, future, manual, paidOff} {
		require.NoError(t, repos.Debt.Create(ctx, d))
	}

	debts, err := repos.Debt.GetDueAutoPay(ctx, now)
	require.NoError(t, err)
	require.Len(t, debts, 2)
	assert.Equal(t, due.ID, debts[0].ID)
	assert.Equal(t, dueWithFraction.ID, debts[1].ID)
}

func TestNewRepository_UnknownDriver(t *testing.T) {
	_, err := NewRepository(nil, "mysql")
	assert.Error(t, err)
}
