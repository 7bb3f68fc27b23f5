package handlers

import (
	"net/http"

	"github.com/bankofmilo/bank/internal/models"
)

type tellerAuthRequest struct {
	AccountNumber string `json:"account_number"`
	PIN           string `json:"pin"`
}

// TellerAuthenticate handles POST /api/atm/auth
func (h *Handler) TellerAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req tellerAuthRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	account, err := h.accountService.Authenticate(r.Context(), req.AccountNumber, req.PIN)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":        "Authentication successful",
		"account_number": account.AccountNumber,
		"balance":        account.Balance,
		"status":         account.Status,
	})
}

type tellerRequestBody struct {
	AccountNumber string  `json:"account_number"`
	PIN           string  `json:"pin"`
	Amount        float64 `json:"amount"`
}

// RequestDeposit handles POST /api/atm/deposit
func (h *Handler) RequestDeposit(w http.ResponseWriter, r *http.Request) {
	h.submitTellerRequest(w, r, models.TellerRequestTypeDeposit)
}

// RequestWithdrawal handles POST /api/atm/withdraw
func (h *Handler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.submitTellerRequest(w, r, models.TellerRequestTypeWithdrawal)
}

func (h *Handler) submitTellerRequest(w http.ResponseWriter, r *http.Request, requestType models.TellerRequestType) {
	var req tellerRequestBody
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	var request *models.TellerRequest
	var err error
	if requestType == models.TellerRequestTypeDeposit {
		request, err = h.tellerService.RequestDeposit(r.Context(), req.AccountNumber, req.PIN, req.Amount)
	} else {
		request, err = h.tellerService.RequestWithdrawal(r.Context(), req.AccountNumber, req.PIN, req.Amount)
	}
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	message := "Deposit request submitted successfully"
	if requestType == models.TellerRequestTypeWithdrawal {
		message = "Withdrawal request submitted successfully"
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":    message,
		"request_id": request.ID.String(),
		"status":     request.Status,
	})
}
