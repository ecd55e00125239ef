package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"debt-service/internal/models"
)

const debtColumns = `id, user_id, name, category, remaining_amount, monthly_payment,
             interest_rate, remaining_months, auto_pay, next_payment_date, created_at, updated_at,
             payment_day, version`

// DebtRepo is a PostgreSQL implementation of the repository.DebtRepository interface
type DebtRepo struct {
	db *sql.DB
}

// NewDebtRepository creates a new DebtRepo
func NewDebtRepository(db *sql.DB) *DebtRepo {
	return &DebtRepo{db: db}
}

// Create creates a new debt in the database
func (r *DebtRepo) Create(ctx context.Context, debt *models.Debt) error {
	query := `INSERT INTO debts (` + debtColumns + `)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		debt.ID,
		debt.UserID,
		debt.Name,
		debt.Category,
		debt.RemainingAmount,
		debt.MonthlyPayment,
		debt.InterestRate,
		debt.RemainingMonths,
		debt.AutoPay,
		debt.NextPaymentDate,
		debt.CreatedAt,
		debt.UpdatedAt,
		debt.PaymentDay,
		debt.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to create debt: %w", err)
	}

	return nil
}

// GetByID gets a debt by ID
func (r *DebtRepo) GetByID(ctx context.Context, id string) (*models.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE id = $1`

	debt, err := scanDebt(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("debt %s: %w", id, models.ErrDebtNotFound)
		}
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}

	return debt, nil
}

// GetByUserID gets all debts for a user
func (r *DebtRepo) GetByUserID(ctx context.Context, userID int) ([]*models.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE user_id = $1
             ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get debts: %w", err)
	}
	defer rows.Close()

	return scanDebts(rows)
}

// Update updates the mutable fields of a debt.
// It fails with models.ErrDebtChanged when the stored version no longer matches debt.Version.
func (r *DebtRepo) Update(ctx context.Context, debt *models.Debt) error {
	if err := updateDebt(ctx, r.db, debt); err != nil {
		return err
	}

	debt.Version++
	return nil
}

// Delete deletes a debt and its payment history
func (r *DebtRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}

	return checkAffected(result, id)
}

// GetDueAutoPay gets auto-pay debts with a balance that are due for payment
func (r *DebtRepo) GetDueAutoPay(ctx context.Context, before time.Time) ([]*models.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts
             WHERE auto_pay AND remaining_amount > 0 AND remaining_months > 0
               AND next_payment_date <= $1
             ORDER BY next_payment_date`

	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to get due debts: %w", err)
	}
	defer rows.Close()

	return scanDebts(rows)
}

// RecordPayment updates the debt and inserts the payment record atomically.
// Nothing is written when the debt changed since it was read.
func (r *DebtRepo) RecordPayment(ctx context.Context, debt *models.Debt, payment *models.DebtPayment) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = updateDebt(ctx, tx, debt); err != nil {
		return err
	}

	query := `INSERT INTO debt_payments (id, debt_id, amount, payment_date,
             principal_amount, interest_amount, remaining_balance)
             VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.ExecContext(
		ctx,
		query,
		payment.ID,
		payment.DebtID,
		payment.Amount,
		payment.PaymentDate,
		payment.PrincipalAmount,
		payment.InterestAmount,
		payment.RemainingBalance,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	debt.Version++
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func updateDebt(ctx context.Context, db querier, debt *models.Debt) error {
	query := `UPDATE debts
             SET name = $1, category = $2, remaining_amount = $3, monthly_payment = $4,
                 interest_rate = $5, remaining_months = $6, auto_pay = $7,
                 next_payment_date = $8, updated_at = $9, payment_day = $10,
                 version = version + 1
             WHERE id = $11 AND version = $12`

	result, err := db.ExecContext(
		ctx,
		query,
		debt.Name,
		debt.Category,
		debt.RemainingAmount,
		debt.MonthlyPayment,
		debt.InterestRate,
		debt.RemainingMonths,
		debt.AutoPay,
		debt.NextPaymentDate,
		debt.UpdatedAt,
		debt.PaymentDay,
		debt.ID,
		debt.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Either the debt is gone or someone else wrote it first
	var exists int
	err = db.QueryRowContext(ctx, `SELECT 1 FROM debts WHERE id = $1`, debt.ID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("debt %s: %w", debt.ID, models.ErrDebtNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check debt: %w", err)
	}

	return fmt.Errorf("debt %s version %d: %w", debt.ID, debt.Version, models.ErrDebtChanged)
}

func checkAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("debt %s: %w", id, models.ErrDebtNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDebt(row rowScanner) (*models.Debt, error) {
	debt := &models.Debt{}
	err := row.Scan(
		&debt.ID,
		&debt.UserID,
		&debt.Name,
		&debt.Category,
		&debt.RemainingAmount,
		&debt.MonthlyPayment,
		&debt.InterestRate,
		&debt.RemainingMonths,
		&debt.AutoPay,
		&debt.NextPaymentDate,
		&debt.CreatedAt,
		&debt.UpdatedAt,
		&debt.PaymentDay,
		&debt.Version,
	)
	if err != nil {
		return nil, err
	}

	return debt, nil
}

// Helper function to scan multiple debts
func scanDebts(rows *sql.Rows) ([]*models.Debt, error) {
	var debts []*models.Debt

	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}

		debts = append(debts, debt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return debts, nil
}
