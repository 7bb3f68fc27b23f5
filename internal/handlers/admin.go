package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// AdminListAccounts handles GET /api/admin/accounts
func (h *Handler) AdminListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.adminService.ListAccounts(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	list := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		list = append(list, toAccountResponse(account))
	}
	respondJSON(w, http.StatusOK, map[string]any{"accounts": list})
}

// AdminAccountDetail handles GET /api/admin/accounts/{accountNumber}/details
func (h *Handler) AdminAccountDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.adminService.AccountDetail(r.Context(), r.PathValue("accountNumber"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	transactions := make([]transactionResponse, 0, len(detail.Transactions))
	for _, txn := range detail.Transactions {
		transactions = append(transactions, toTransactionResponse(txn))
	}
	loans := make([]loanResponse, 0, len(detail.Loans))
	for _, loan := range detail.Loans {
		loans = append(loans, toLoanResponse(loan))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"account":      toAccountResponse(detail.Account),
		"transactions": transactions,
		"loans":        loans,
	})
}

// AdminCloseAccount handles POST /api/admin/accounts/{accountNumber}/close
func (h *Handler) AdminCloseAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.CloseAccount(r.Context(), r.PathValue("accountNumber")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Account closed successfully"})
}

// AdminListLoans handles GET /api/admin/loans
func (h *Handler) AdminListLoans(w http.ResponseWriter, r *http.Request) {
	details, err := h.adminService.ListLoans(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	list := make([]map[string]any, 0, len(details))
	for _, detail := range details {
		loan := toLoanResponse(detail.Loan)
		list = append(list, map[string]any{
			"id":                  loan.ID,
			"account_number":      detail.AccountNumber,
			"full_name":           detail.FullName,
			"amount":              loan.Amount,
			"reason":              loan.Reason,
			"status":              loan.Status,
			"preferred_date1":     loan.PreferredDate1,
			"preferred_date2":     loan.PreferredDate2,
			"approved_date1":      loan.ApprovedDate1,
			"approved_date2":      loan.ApprovedDate2,
			"first_payment_done":  loan.FirstPaymentDone,
			"second_payment_done": loan.SecondPaymentDone,
			"applied_at":          loan.AppliedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"loans": list})
}

type approveLoanRequest struct {
	ApprovedDate1 *string `json:"approved_date1"`
	ApprovedDate2 *string `json:"approved_date2"`
}

// AdminApproveLoan handles POST /api/admin/loans/{loanID}/approve
func (h *Handler) AdminApproveLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(r.PathValue("loanID"))
	if err != nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "loan not found"})
		return
	}

	var req approveLoanRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
			return
		}
	}

	var date1, date2 *time.Time
	if req.ApprovedDate1 != nil {
		parsed, err := parseDate(*req.ApprovedDate1)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_date", Message: err.Error()})
			return
		}
		date1 = &parsed
	}
	if req.ApprovedDate2 != nil {
		parsed, err := parseDate(*req.ApprovedDate2)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_date", Message: err.Error()})
			return
		}
		date2 = &parsed
	}

	if err := h.adminService.ApproveLoan(r.Context(), loanID, date1, date2); err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Loan approved successfully"})
}

// AdminDenyLoan handles POST /api/admin/loans/{loanID}/deny
func (h *Handler) AdminDenyLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(r.PathValue("loanID"))
	if err != nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "loan not found"})
		return
	}

	if err := h.adminService.DenyLoan(r.Context(), loanID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Loan denied successfully"})
}

// AdminListTellerRequests handles GET /api/admin/atm-requests
func (h *Handler) AdminListTellerRequests(w http.ResponseWriter, r *http.Request) {
	details, err := h.adminService.ListTellerRequests(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	list := make([]map[string]any, 0, len(details))
	for _, detail := range details {
		request := detail.Request
		var completedAt *string
		if request.CompletedAt != nil {
			s := request.CompletedAt.Format(time.RFC3339)
			completedAt = &s
		}
		list = append(list, map[string]any{
			"id":             request.ID.String(),
			"account_number": detail.AccountNumber,
			"full_name":      detail.FullName,
			"type":           request.Type,
			"amount":         request.Amount,
			"status":         request.Status,
			"requested_at":   request.RequestedAt.Format(time.RFC3339),
			"completed_at":   completedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"requests": list})
}

// AdminCompleteTellerRequest handles POST /api/admin/atm-requests/{requestID}/complete
func (h *Handler) AdminCompleteTellerRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(r.PathValue("requestID"))
	if err != nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "teller request not found"})
		return
	}

	if err := h.adminService.CompleteTellerRequest(r.Context(), requestID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Teller request completed successfully"})
}
