package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"debt-service/internal/models"
	"debt-service/internal/repository"
)

// Upper bound on schedules computed concurrently for one projection
const projectionWorkers = 8

// AnalyticsSvc is an implementation of the service.AnalyticsService interface
type AnalyticsSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
}

// NewAnalyticsService creates a new AnalyticsSvc
func NewAnalyticsService(deps Dependencies) *AnalyticsSvc {
	return &AnalyticsSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
	}
}

// GetSummary aggregates the current state of all of a user's debts
func (s *AnalyticsSvc) GetSummary(ctx context.Context, userID int) (*models.DebtSummary, error) {
	debts, err := s.loadDebts(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := models.Summarize(debts)
	return &summary, nil
}

// GetProjection runs every debt's schedule to its end and combines the results
func (s *AnalyticsSvc) GetProjection(ctx context.Context, userID int) (*models.PortfolioProjection, error) {
	debts, err := s.loadDebts(ctx, userID)
	if err != nil {
		return nil, err
	}

	projections := make([]models.DebtProjection, len(debts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(projectionWorkers)

	for i, debt := range debts {
		i, debt := i, debt
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			projections[i] = models.ProjectDebt(debt)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to project debts: %w", err)
	}

	s.logger.Debugf("Projected %d debts for user %d", len(debts), userID)

	return models.CombineProjections(projections), nil
}

func (s *AnalyticsSvc) loadDebts(ctx context.Context, userID int) ([]models.Debt, error) {
	debts, err := s.repos.Debt.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get debts: %w", err)
	}

	values := make([]models.Debt, len(debts))
	for i, debt := range debts {
		values[i] = *debt
	}

	return values, nil
}
