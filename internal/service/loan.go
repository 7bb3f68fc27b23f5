package service

import (
	"context"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/bankofmilo/bank/internal/repository"
	"github.com/google/uuid"
)

// LoanService handles borrower-facing loan operations
type LoanService struct {
	store repository.Store
}

// NewLoanService creates a new LoanService
func NewLoanService(store repository.Store) *LoanService {
	return &LoanService{store: store}
}

// Apply submits a loan application for an active account. The application is
// created pending; no funds move until an administrator approves it.
func (s *LoanService) Apply(ctx context.Context, accountNumber, pin string, amount float64, reason string, preferredDate1, preferredDate2 time.Time) (*models.Loan, error) {
	account, err := authenticate(ctx, s.store, accountNumber, pin)
	if err != nil {
		return nil, err
	}
	if account.Status != models.AccountStatusActive {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotActive,
			Message: "account is not active",
		}
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: err.Error()}
	}
	if err := ValidateReason(reason); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidState, Message: err.Error()}
	}
	if err := ValidateLoanDates(preferredDate1, preferredDate2); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidDate, Message: err.Error()}
	}

	loan := &models.Loan{
		ID:             uuid.New(),
		AccountID:      account.ID,
		Amount:         amount,
		Reason:         reason,
		PreferredDate1: models.DateOf(preferredDate1),
		PreferredDate2: models.DateOf(preferredDate2),
		Status:         models.LoanStatusPending,
		Stage:          models.PaymentStageNone,
		AppliedAt:      time.Now().UTC(),
	}

	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, errInternal("create loan", err)
	}

	return loan, nil
}

// ListForAccount returns the account's loan applications, newest first
func (s *LoanService) ListForAccount(ctx context.Context, accountNumber, pin string) ([]*models.Loan, error) {
	account, err := authenticate(ctx, s.store, accountNumber, pin)
	if err != nil {
		return nil, err
	}

	loans, err := s.store.ListAccountLoans(ctx, account.ID)
	if err != nil {
		return nil, errInternal("list loans", err)
	}
	return loans, nil
}
