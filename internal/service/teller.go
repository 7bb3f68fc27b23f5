package service

import (
	"context"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/bankofmilo/bank/internal/repository"
	"github.com/google/uuid"
)

// TellerService handles caller-initiated deposit and withdrawal requests.
// Requests do not touch the balance; an administrator completes them later.
type TellerService struct {
	store repository.Store
}

// NewTellerService creates a new TellerService
func NewTellerService(store repository.Store) *TellerService {
	return &TellerService{store: store}
}

// RequestDeposit submits a pending deposit request. Deposits are accepted
// for on-hold accounts as well, since they can only restore the balance;
// closed accounts reject everything but reads.
func (s *TellerService) RequestDeposit(ctx context.Context, accountNumber, pin string, amount float64) (*models.TellerRequest, error) {
	account, err := authenticate(ctx, s.store, accountNumber, pin)
	if err != nil {
		return nil, err
	}
	if account.Status == models.AccountStatusClosed {
		return nil, &ServiceError{
			Code:    ErrCodeAccountNotActive,
			Message: "account is closed",
		}
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: err.Error()}
	}

	return s.createRequest(ctx, account, models.TellerRequestTypeDeposit, amount)
}

// RequestWithdrawal submits a pending withdrawal request. The account must
// be active and the balance sufficient at request time; a rejected request
// leaves no trace in the ledger.
func (s *TellerService) RequestWithdrawal(ctx context.Context, accountNumber, pin string, amount float64) (*models.TellerRequest, error) {
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
	if amount > account.Balance {
		return nil, &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "insufficient funds",
		}
	}

	return s.createRequest(ctx, account, models.TellerRequestTypeWithdrawal, amount)
}

func (s *TellerService) createRequest(ctx context.Context, account *models.Account, requestType models.TellerRequestType, amount float64) (*models.TellerRequest, error) {
	request := &models.TellerRequest{
		ID:          uuid.New(),
		AccountID:   account.ID,
		Type:        requestType,
		Amount:      amount,
		Status:      models.TellerRequestStatusPending,
		RequestedAt: time.Now().UTC(),
	}

	if err := s.store.CreateTellerRequest(ctx, request); err != nil {
		return nil, errInternal("create teller request", err)
	}

	return request, nil
}
