package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"debt-service/internal/service"
	"debt-service/pkg/utils"
)

// AnalyticsHandler handles portfolio analytics requests
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           *logrus.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService service.AnalyticsService, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetSummary handles retrieving the debt summary of a user
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	summary, err := h.analyticsService.GetSummary(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.logger, "get summary", err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "summary retrieved successfully", summary.Rounded())
}

// GetProjection handles retrieving the payoff projection of a user's debts
func (h *AnalyticsHandler) GetProjection(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	// Project every debt to payoff
	projection, err := h.analyticsService.GetProjection(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.logger, "get projection", err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "projection retrieved successfully", projection)
}
