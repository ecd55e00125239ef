package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"debt-service/internal/models"
	"debt-service/internal/service"
	"debt-service/pkg/utils"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService service.UserService
	logger      *logrus.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Register handles user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	// Parse request body
	var userReg models.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&userReg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	// Register the user
	userID, err := h.userService.Register(r.Context(), &userReg)
	if err != nil {
		respondWithServiceError(w, h.logger, "register user", err)
		return
	}

	// Return success response
	utils.RespondWithSuccess(w, http.StatusCreated, "user registered successfully", map[string]interface{}{
		"user_id": userID,
	})
}

// Login handles user login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	// Parse request body
	var loginReq models.UserLogin
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	// Authenticate the user
	tokenResponse, err := h.userService.Login(r.Context(), &loginReq)
	if err != nil {
		respondWithServiceError(w, h.logger, "login user", err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "login successful", tokenResponse)
}

// GetUser handles fetching the authenticated user's information
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.logger, "get user", err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "user details retrieved successfully", user)
}
