package handler

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"debt-service/configs"
	"debt-service/internal/middleware"
	"debt-service/internal/models"
	"debt-service/internal/service"
	"debt-service/pkg/utils"
)

// Dependencies contains handler dependencies
type Dependencies struct {
	Services *service.Service
	Logger   *logrus.Logger
	Config   *configs.Config
}

// Handler contains all HTTP handlers for the application
type Handler struct {
	User      *UserHandler
	Debt      *DebtHandler
	Analytics *AnalyticsHandler
}

// NewHandler creates a new Handler with all subhandlers
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		User:      NewUserHandler(deps.Services.User, deps.Logger),
		Debt:      NewDebtHandler(deps.Services.Debt, deps.Logger),
		Analytics: NewAnalyticsHandler(deps.Services.Analytics, deps.Logger),
	}
}

// Get user ID from context (set by auth middleware)
func currentUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "user ID not found in context")
	}
	return userID, ok
}

// respondWithServiceError maps service errors to HTTP status codes
func respondWithServiceError(w http.ResponseWriter, logger *logrus.Logger, action string, err error) {
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		utils.RespondWithError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, models.ErrAccessDenied):
		utils.RespondWithError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, models.ErrDebtNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "debt not found")
	case errors.Is(err, models.ErrUserNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, models.ErrDebtPaidOff):
		utils.RespondWithError(w, http.StatusConflict, "debt is already paid off")
	case errors.Is(err, models.ErrDebtChanged):
		utils.RespondWithError(w, http.StatusConflict, "debt was modified, retry the request")
	case errors.Is(err, models.ErrUserExists):
		utils.RespondWithError(w, http.StatusConflict, "user already exists")
	default:
		logger.Errorf("Failed to %s: %v", action, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to "+action)
		return
	}

	logger.Warnf("Failed to %s: %v", action, err)
}
