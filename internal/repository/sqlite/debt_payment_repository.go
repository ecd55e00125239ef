package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"debt-service/internal/models"
)

// DebtPaymentRepo is a SQLite implementation of the repository.DebtPaymentRepository interface
type DebtPaymentRepo struct {
	db *sql.DB
}

// NewDebtPaymentRepository creates a new DebtPaymentRepo
func NewDebtPaymentRepository(db *sql.DB) *DebtPaymentRepo {
	return &DebtPaymentRepo{db: db}
}

// GetByDebtID gets the payment history of a debt, newest first
func (r *DebtPaymentRepo) GetByDebtID(ctx context.Context, debtID string) ([]*models.DebtPayment, error) {
	query := `SELECT id, debt_id, amount, payment_date, principal_amount, interest_amount, remaining_balance
             FROM debt_payments WHERE debt_id = ?
             ORDER BY payment_date DESC`

	rows, err := r.db.QueryContext(ctx, query, debtID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.DebtPayment
	for rows.Next() {
		var (
			payment models.DebtPayment
			paidAt  string
		)
		err := rows.Scan(
			&payment.ID,
			&payment.DebtID,
			&payment.Amount,
			&paidAt,
			&payment.PrincipalAmount,
			&payment.InterestAmount,
			&payment.RemainingBalance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}

		if payment.PaymentDate, err = parseTime(paidAt); err != nil {
			return nil, err
		}

		payments = append(payments, &payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return payments, nil
}
