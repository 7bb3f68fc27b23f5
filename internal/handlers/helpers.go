package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/bankofmilo/bank/internal/service"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // nothing useful to do if write fails
}

// decodeJSON decodes a request body, rejecting unknown fields before any
// state mutation can happen.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return date, nil
}

func formatDate(date *time.Time) *string {
	if date == nil {
		return nil
	}
	s := date.Format(dateLayout)
	return &s
}

// respondServiceError maps service error codes to HTTP statuses. Anything
// that is not a ServiceError is an internal failure and is logged without
// leaking detail to the caller.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.Error("unexpected error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   service.ErrCodeInternalError,
			Message: "internal error",
		})
		return
	}

	status := http.StatusBadRequest
	switch svcErr.Code {
	case service.ErrCodeInvalidCredentials:
		status = http.StatusUnauthorized
	case service.ErrCodeNotFound:
		status = http.StatusNotFound
	case service.ErrCodeInsufficientFunds:
		status = http.StatusPaymentRequired
	case service.ErrCodeInternalError:
		h.logger.Error("internal service error", "error", err)
		status = http.StatusInternalServerError
	}

	respondJSON(w, status, errorResponse{
		Error:   svcErr.Code,
		Message: svcErr.Message,
	})
}

type transactionResponse struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	Timestamp    string  `json:"timestamp"`
	BalanceAfter float64 `json:"balance_after"`
}

func toTransactionResponse(txn *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:           txn.ID.String(),
		Type:         string(txn.Type),
		Amount:       txn.Amount,
		Description:  txn.Description,
		Timestamp:    txn.Timestamp.Format(time.RFC3339),
		BalanceAfter: txn.BalanceAfter,
	}
}

type loanResponse struct {
	ID                string  `json:"id"`
	Amount            float64 `json:"amount"`
	Reason            string  `json:"reason"`
	Status            string  `json:"status"`
	PreferredDate1    string  `json:"preferred_date1"`
	PreferredDate2    string  `json:"preferred_date2"`
	ApprovedDate1     *string `json:"approved_date1"`
	ApprovedDate2     *string `json:"approved_date2"`
	FirstPaymentDone  bool    `json:"first_payment_done"`
	SecondPaymentDone bool    `json:"second_payment_done"`
	AppliedAt         string  `json:"applied_at"`
}

func toLoanResponse(loan *models.Loan) loanResponse {
	return loanResponse{
		ID:                loan.ID.String(),
		Amount:            loan.Amount,
		Reason:            loan.Reason,
		Status:            string(loan.Status),
		PreferredDate1:    loan.PreferredDate1.Format(dateLayout),
		PreferredDate2:    loan.PreferredDate2.Format(dateLayout),
		ApprovedDate1:     formatDate(loan.ApprovedDate1),
		ApprovedDate2:     formatDate(loan.ApprovedDate2),
		FirstPaymentDone:  loan.Stage.FirstPaymentDone(),
		SecondPaymentDone: loan.Stage.SecondPaymentDone(),
		AppliedAt:         loan.AppliedAt.Format(time.RFC3339),
	}
}

type accountResponse struct {
	ID            string  `json:"id"`
	AccountNumber string  `json:"account_number"`
	FullName      string  `json:"full_name"`
	DateOfBirth   string  `json:"date_of_birth"`
	Balance       float64 `json:"balance"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

func toAccountResponse(account *models.Account) accountResponse {
	return accountResponse{
		ID:            account.ID.String(),
		AccountNumber: account.AccountNumber,
		FullName:      account.FullName,
		DateOfBirth:   account.DateOfBirth.Format(dateLayout),
		Balance:       account.Balance,
		Status:        string(account.Status),
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
	}
}
