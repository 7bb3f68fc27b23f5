package handlers

import "net/http"

type applyLoanRequest struct {
	AccountNumber  string  `json:"account_number"`
	PIN            string  `json:"pin"`
	Amount         float64 `json:"amount"`
	Reason         string  `json:"reason"`
	PreferredDate1 string  `json:"preferred_date1"`
	PreferredDate2 string  `json:"preferred_date2"`
}

// ApplyLoan handles POST /api/loans
func (h *Handler) ApplyLoan(w http.ResponseWriter, r *http.Request) {
	var req applyLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	date1, err := parseDate(req.PreferredDate1)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_date", Message: err.Error()})
		return
	}
	date2, err := parseDate(req.PreferredDate2)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_date", Message: err.Error()})
		return
	}

	loan, svcErr := h.loanService.Apply(r.Context(), req.AccountNumber, req.PIN, req.Amount, req.Reason, date1, date2)
	if svcErr != nil {
		h.respondServiceError(w, svcErr)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Loan application submitted successfully",
		"loan_id": loan.ID.String(),
		"status":  loan.Status,
	})
}
