package handlers

import "net/http"

type openAccountRequest struct {
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
}

// OpenAccount handles POST /api/accounts
func (h *Handler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_date", Message: err.Error()})
		return
	}

	account, svcErr := h.accountService.Open(r.Context(), req.FullName, dob)
	if svcErr != nil {
		h.respondServiceError(w, svcErr)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message":        "Account created successfully",
		"account_number": account.AccountNumber,
		"pin":            account.PIN,
	})
}

type pinRequest struct {
	PIN string `json:"pin"`
}

// GetBalance handles POST /api/accounts/{accountNumber}/balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	account, err := h.accountService.Balance(r.Context(), r.PathValue("accountNumber"), req.PIN)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"account_number": account.AccountNumber,
		"balance":        account.Balance,
		"status":         account.Status,
	})
}

// GetHistory handles POST /api/accounts/{accountNumber}/history
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	accountNumber := r.PathValue("accountNumber")
	transactions, err := h.accountService.History(r.Context(), accountNumber, req.PIN)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	history := make([]transactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		history = append(history, toTransactionResponse(txn))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"account_number": accountNumber,
		"history":        history,
	})
}

// GetAccountLoans handles POST /api/accounts/{accountNumber}/loans
func (h *Handler) GetAccountLoans(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	loans, err := h.loanService.ListForAccount(r.Context(), r.PathValue("accountNumber"), req.PIN)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	list := make([]loanResponse, 0, len(loans))
	for _, loan := range loans {
		list = append(list, toLoanResponse(loan))
	}

	respondJSON(w, http.StatusOK, map[string]any{"loans": list})
}

// CheckAccountExists handles GET /api/accounts/{accountNumber}/exists
func (h *Handler) CheckAccountExists(w http.ResponseWriter, r *http.Request) {
	status, exists, err := h.accountService.Exists(r.Context(), r.PathValue("accountNumber"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	if !exists {
		respondJSON(w, http.StatusNotFound, map[string]any{"exists": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"exists": true, "status": status})
}
