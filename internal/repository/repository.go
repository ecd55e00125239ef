package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"debt-service/internal/models"
	"debt-service/internal/repository/postgres"
	"debt-service/internal/repository/sqlite"
)

// UserRepository defines methods for user repository
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// DebtRepository defines methods for debt repository
type DebtRepository interface {
	Create(ctx context.Context, debt *models.Debt) error
	GetByID(ctx context.Context, id string) (*models.Debt, error)
	GetByUserID(ctx context.Context, userID int) ([]*models.Debt, error)
	Update(ctx context.Context, debt *models.Debt) error
	Delete(ctx context.Context, id string) error

	// GetDueAutoPay returns auto-pay debts with a balance whose next payment is due at or before the given time
	GetDueAutoPay(ctx context.Context, before time.Time) ([]*models.Debt, error)

	// RecordPayment stores the updated debt and its payment record in one transaction
	RecordPayment(ctx context.Context, debt *models.Debt, payment *models.DebtPayment) error
}

// DebtPaymentRepository defines methods for payment history
type DebtPaymentRepository interface {
	GetByDebtID(ctx context.Context, debtID string) ([]*models.DebtPayment, error)
}

// Repository is a composition of all repositories
type Repository struct {
	DB      *sql.DB
	User    UserRepository
	Debt    DebtRepository
	Payment DebtPaymentRepository
}

// NewRepository creates a new repository with all sub-repositories for the given driver
func NewRepository(db *sql.DB, driver string) (*Repository, error) {
	switch driver {
	case DriverPostgres:
		return &Repository{
			DB:      db,
			User:    postgres.NewUserRepository(db),
			Debt:    postgres.NewDebtRepository(db),
			Payment: postgres.NewDebtPaymentRepository(db),
		}, nil
	case DriverSQLite:
		return &Repository{
			DB:      db,
			User:    sqlite.NewUserRepository(db),
			Debt:    sqlite.NewDebtRepository(db),
			Payment: sqlite.NewDebtPaymentRepository(db),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
