package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"debt-service/internal/cache"
	"debt-service/internal/models"
	"debt-service/internal/repository"
)

// DebtSvc is an implementation of the service.DebtService interface
type DebtSvc struct {
	repos    *repository.Repository
	logger   *logrus.Logger
	cache    cache.ScheduleCache
	notifier Notifier
	now      func() time.Time
}

// NewDebtService creates a new DebtSvc
func NewDebtService(deps Dependencies) *DebtSvc {
	return &DebtSvc{
		repos:    deps.Repos,
		logger:   deps.Logger,
		cache:    deps.Cache,
		notifier: deps.Notifier,
		now:      deps.clock(),
	}
}

// Create validates the request and stores a new debt for the user
func (s *DebtSvc) Create(ctx context.Context, userID int, req *models.DebtRequest) (*models.Debt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	debt := req.ToDebt(userID, s.now())
	if err := s.repos.Debt.Create(ctx, debt); err != nil {
		return nil, fmt.Errorf("failed to create debt: %w", err)
	}

	s.logger.Infof("Debt created: %s for user: %d, amount: %.2f, payment: %.2f, rate: %.2f%%, months: %d",
		debt.ID, userID, debt.RemainingAmount, debt.MonthlyPayment, debt.InterestRate, debt.RemainingMonths)

	if !models.IsAmortizing(*debt) {
		s.logger.Warnf("Debt %s does not amortize: payment %.2f does not cover monthly interest", debt.ID, debt.MonthlyPayment)
	}

	return debt, nil
}

// GetByID gets a debt by ID and verifies ownership
func (s *DebtSvc) GetByID(ctx context.Context, id string, userID int) (*models.Debt, error) {
	debt, err := s.repos.Debt.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}

	if debt.UserID != userID {
		return nil, fmt.Errorf("debt %s: %w", id, models.ErrAccessDenied)
	}

	return debt, nil
}

// GetByUserID gets all debts for a user
func (s *DebtSvc) GetByUserID(ctx context.Context, userID int) ([]*models.Debt, error) {
	debts, err := s.repos.Debt.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get debts: %w", err)
	}

	return debts, nil
}

// Update replaces the editable fields of a debt
func (s *DebtSvc) Update(ctx context.Context, id string, userID int, req *models.DebtRequest) (*models.Debt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	debt, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(debt, s.now())
	if err := s.repos.Debt.Update(ctx, debt); err != nil {
		return nil, fmt.Errorf("failed to update debt: %w", err)
	}

	s.logger.Infof("Debt updated: %s for user: %d", debt.ID, userID)

	return debt, nil
}

// Delete deletes a debt with its payment history
func (s *DebtSvc) Delete(ctx context.Context, id string, userID int) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repos.Debt.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}

	s.logger.Infof("Debt deleted: %s for user: %d", id, userID)

	return nil
}

// GetSchedule computes the payoff schedule of a debt, served from cache when possible
func (s *DebtSvc) GetSchedule(ctx context.Context, id string, userID int) (*models.ScheduleResponse, error) {
	debt, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	return s.schedule(ctx, debt), nil
}

func (s *DebtSvc) schedule(ctx context.Context, debt *models.Debt) *models.ScheduleResponse {
	key := cache.ScheduleKey(debt)

	if s.cache != nil {
		if data, ok := s.cache.Get(ctx, key); ok {
			var cached models.ScheduleResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached
			}
			s.logger.Warnf("Discarding unreadable cached schedule %s", key)
		}
	}

	response := models.NewScheduleResponse(*debt, models.ComputeSchedule(*debt))

	if s.cache != nil {
		data, err := json.Marshal(response)
		if err == nil {
			err = s.cache.Set(ctx, key, data)
		}
		if err != nil {
			s.logger.Warnf("Failed to cache schedule for debt %s: %v", debt.ID, err)
		}
	}

	return response
}

// ExportSchedule renders the schedule of a debt as an XML document
func (s *DebtSvc) ExportSchedule(ctx context.Context, id string, userID int) ([]byte, error) {
	debt, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	data, err := BuildScheduleXML(debt, s.schedule(ctx, debt), s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to export schedule: %w", err)
	}

	return data, nil
}

// ApplyPayment applies one monthly payment to a debt
func (s *DebtSvc) ApplyPayment(ctx context.Context, id string, userID int) (*models.PaymentResult, error) {
	debt, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	return s.applyPayment(ctx, debt, s.now(), false)
}

func (s *DebtSvc) applyPayment(ctx context.Context, debt *models.Debt, at time.Time, automatic bool) (*models.PaymentResult, error) {
	if debt.IsPaidOff() {
		return nil, fmt.Errorf("debt %s: %w", debt.ID, models.ErrDebtPaidOff)
	}

	next, payment := models.ApplyPayment(*debt, at)
	next.NextPaymentDate = debt.FollowingDueDate()
	next.UpdatedAt = s.now()

	if err := s.repos.Debt.RecordPayment(ctx, &next, &payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	result := &models.PaymentResult{
		Debt:    &next,
		Payment: &payment,
		PaidOff: next.IsPaidOff(),
	}

	s.logger.Infof("Payment applied: %s to debt: %s, principal: %.2f, interest: %.2f, remaining: %.2f",
		payment.ID, next.ID, payment.PrincipalAmount, payment.InterestAmount, payment.RemainingBalance)
	if result.PaidOff {
		s.logger.Infof("Debt paid off: %s", next.ID)
	}

	s.notify(next, payment, automatic)

	return result, nil
}

// Send the notification in the background
func (s *DebtSvc) notify(debt models.Debt, payment models.DebtPayment, automatic bool) {
	if s.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := s.repos.User.GetByID(ctx, debt.UserID)
		if err != nil {
			s.logger.Warnf("Failed to load user %d for payment notification: %v", debt.UserID, err)
			return
		}

		notification := &models.PaymentNotification{
			UserID:          user.ID,
			Email:           user.Email,
			RecipientName:   user.DisplayName(),
			DebtID:          debt.ID,
			DebtName:        debt.Name,
			Payment:         payment,
			RemainingMonths: debt.RemainingMonths,
			PaidOff:         debt.IsPaidOff(),
			Automatic:       automatic,
		}

		if err := s.notifier.NotifyPayment(ctx, notification); err != nil {
			s.logger.Warnf("Failed to send payment notification for debt %s: %v", debt.ID, err)
		}
	}()
}

// GetPayments gets the payment history of a debt, newest first
func (s *DebtSvc) GetPayments(ctx context.Context, id string, userID int) ([]*models.DebtPayment, error) {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return nil, err
	}

	payments, err := s.repos.Payment.GetByDebtID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	return payments, nil
}

// ProcessAutoPayments applies every auto-payment that is due.
// A debt that missed several due dates is caught up one period at a time.
// Failures are logged per debt and do not stop the run.
func (s *DebtSvc) ProcessAutoPayments(ctx context.Context) (int, error) {
	now := s.now()
	s.logger.Infof("Processing auto payments due by: %s", now.Format(time.RFC3339))

	debts, err := s.repos.Debt.GetDueAutoPay(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to get due debts: %w", err)
	}

	s.logger.Infof("Found %d debts with payments due", len(debts))

	processed := 0
	for _, debt := range debts {
		current := debt
		for !current.IsPaidOff() && current.RemainingMonths > 0 && !current.NextPaymentDate.After(now) {
			if err := ctx.Err(); err != nil {
				return processed, err
			}

			result, err := s.applyPayment(ctx, current, current.NextPaymentDate, true)
			if err != nil {
				if !errors.Is(err, models.ErrDebtPaidOff) {
					s.logger.Warnf("Failed to process auto payment for debt %s: %v", current.ID, err)
				}
				break
			}

			processed++
			current = result.Debt
		}
	}

	return processed, nil
}
