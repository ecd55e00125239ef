package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"debt-service/configs"
	"debt-service/internal/cache"
	"debt-service/internal/models"
	"debt-service/internal/repository"
	"debt-service/pkg/crypto"
)

// UserService defines methods for user service
type UserService interface {
	Register(ctx context.Context, user *models.UserRegistration) (int, error)
	Login(ctx context.Context, login *models.UserLogin) (*models.TokenResponse, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// DebtService defines methods for debt service
type DebtService interface {
	Create(ctx context.Context, userID int, req *models.DebtRequest) (*models.Debt, error)
	GetByID(ctx context.Context, id string, userID int) (*models.Debt, error)
	GetByUserID(ctx context.Context, userID int) ([]*models.Debt, error)
	Update(ctx context.Context, id string, userID int, req *models.DebtRequest) (*models.Debt, error)
	Delete(ctx context.Context, id string, userID int) error
	GetSchedule(ctx context.Context, id string, userID int) (*models.ScheduleResponse, error)
	ExportSchedule(ctx context.Context, id string, userID int) ([]byte, error)
	ApplyPayment(ctx context.Context, id string, userID int) (*models.PaymentResult, error)
	GetPayments(ctx context.Context, id string, userID int) ([]*models.DebtPayment, error)
	ProcessAutoPayments(ctx context.Context) (int, error)
}

// AnalyticsService defines methods for analytics service
type AnalyticsService interface {
	GetSummary(ctx context.Context, userID int) (*models.DebtSummary, error)
	GetProjection(ctx context.Context, userID int) (*models.PortfolioProjection, error)
}

// Notifier delivers payment notifications
type Notifier interface {
	NotifyPayment(ctx context.Context, n *models.PaymentNotification) error
}

// Dependencies contains dependencies for services
type Dependencies struct {
	Repos    *repository.Repository
	Logger   *logrus.Logger
	Config   *configs.Config
	Cache    cache.ScheduleCache
	Notifier Notifier

	// Optional; defaults are used when nil
	Hasher *crypto.PasswordHasher
	Clock  func() time.Time
}

// Service is a composition of all services
type Service struct {
	User      UserService
	Debt      DebtService
	Analytics AnalyticsService
}

// NewService creates a new service with all sub-services
func NewService(deps Dependencies) *Service {
	return &Service{
		User:      NewUserService(deps),
		Debt:      NewDebtService(deps),
		Analytics: NewAnalyticsService(deps),
	}
}

func (d Dependencies) clock() func() time.Time {
	if d.Clock != nil {
		return d.Clock
	}
	return func() time.Time { return time.Now().UTC() }
}
