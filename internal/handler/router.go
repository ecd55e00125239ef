package handler

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"debt-service/configs"
	"debt-service/internal/middleware"
	"debt-service/pkg/utils"
)

// NewRouter wires every route of the API
func NewRouter(h *Handler, cfg *configs.Config, logger *logrus.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.LogMiddleware(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithSuccess(w, http.StatusOK, "ok", nil)
	}).Methods(http.MethodGet)

	// Public routes
	router.HandleFunc("/register", h.User.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", h.User.Login).Methods(http.MethodPost)

	// Protected routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	api.HandleFunc("/user", h.User.GetUser).Methods(http.MethodGet)

	// Debt endpoints
	api.HandleFunc("/debts", h.Debt.Create).Methods(http.MethodPost)
	api.HandleFunc("/debts", h.Debt.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/debts/{id}", h.Debt.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/debts/{id}", h.Debt.Update).Methods(http.MethodPut)
	api.HandleFunc("/debts/{id}", h.Debt.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/debts/{id}/schedule", h.Debt.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/debts/{id}/schedule/export", h.Debt.ExportSchedule).Methods(http.MethodGet)
	api.HandleFunc("/debts/{id}/payments", h.Debt.ApplyPayment).Methods(http.MethodPost)
	api.HandleFunc("/debts/{id}/payments", h.Debt.GetPayments).Methods(http.MethodGet)

	// Analytics endpoints
	api.HandleFunc("/analytics/summary", h.Analytics.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/analytics/projection", h.Analytics.GetProjection).Methods(http.MethodGet)

	// Wraps the whole router so preflight requests are answered before route matching
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})(router)
}
