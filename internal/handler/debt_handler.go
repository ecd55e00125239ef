package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"debt-service/internal/models"
	"debt-service/internal/service"
	"debt-service/pkg/utils"
)

// DebtHandler handles debt-related HTTP requests
type DebtHandler struct {
	debtService service.DebtService
	logger      *logrus.Logger
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService service.DebtService, logger *logrus.Logger) *DebtHandler {
	return &DebtHandler{
		debtService: debtService,
		logger:      logger,
	}
}

// Create handles debt creation
func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	// Parse request body
	var req models.DebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	// Create the debt
	debt, err := h.debtService.Create(r.Context(), userID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, "create debt", err)
		return
	}

	// Return success response
	utils.RespondWithSuccess(w, http.StatusCreated, "debt created successfully", debt.Rounded())
}

// GetAll handles retrieving all debts for a user
func (h *DebtHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	debts, err := h.debtService.GetByUserID(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, h.logger, "get debts", err)
		return
	}

	// Round amounts for the response
	rounded := make([]models.Debt, len(debts))
	for i, debt := range debts {
		rounded[i] = debt.Rounded()
	}

	utils.RespondWithSuccess(w, http.StatusOK, "debts retrieved successfully", rounded)
}

// GetByID handles retrieving a specific debt
func (h *DebtHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	debt, err := h.debtService.GetByID(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		respondWithServiceError(w, h.logger, "get debt", err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "debt retrieved successfully", debt.Rounded())
}

// Update handles replacing the editable fields of a debt
func (h *DebtHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req models.DebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	debt, err := h.debtService.Update(r.Context(), mux.Vars(r)["id"], userID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, "update debt", err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "debt updated successfully", debt.Rounded())
}

// Delete handles deleting a debt
func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.debtService.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		respondWithServiceError(w, h.logger, "delete debt", err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "debt deleted successfully", nil)
}

// GetSchedule handles retrieving the payoff schedule of a debt
func (h *DebtHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	schedule, err := h.debtService.GetSchedule(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		respondWithServiceError(w, h.logger, "get schedule", err)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, "schedule retrieved successfully", schedule)
}

// ExportSchedule handles downloading the schedule of a debt as XML
func (h *DebtHandler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	data, err := h.debtService.ExportSchedule(r.Context(), id, userID)
	if err != nil {
		respondWithServiceError(w, h.logger, "export schedule", err)
		return
	}

	// Send as a file download
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule-`+id+`.xml"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warnf("Failed to write schedule export: %v", err)
	}
}

// ApplyPayment handles applying one monthly payment to a debt
func (h *DebtHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	// Apply the payment
	result, err := h.debtService.ApplyPayment(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		respondWithServiceError(w, h.logger, "apply payment", err)
		return
	}

	// Return success response
	debt := result.Debt.Rounded()
	payment := result.Payment.Rounded()

	message := "payment applied successfully"
	if result.PaidOff {
		message = "payment applied, debt is paid off"
	}

	utils.RespondWithSuccess(w, http.StatusCreated, message, models.PaymentResult{
		Debt:    &debt,
		Payment: &payment,
		PaidOff: result.PaidOff,
	})
}

// GetPayments handles retrieving the payment history of a debt
func (h *DebtHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	payments, err := h.debtService.GetPayments(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		respondWithServiceError(w, h.logger, "get payments", err)
		return
	}

	rounded := make([]models.DebtPayment, len(payments))
	for i, payment := range payments {
		rounded[i] = payment.Rounded()
	}

	utils.RespondWithSuccess(w, http.StatusOK, "payments retrieved successfully", rounded)
}
