package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/bankofmilo/bank/internal/repository"
	"github.com/google/uuid"
)

// AdminService handles administrative operations: account oversight, loan
// decisions and teller request completion. Balance-affecting operations run
// in a single lock acquisition per account.
type AdminService struct {
	store repository.Store
}

// NewAdminService creates a new AdminService
func NewAdminService(store repository.Store) *AdminService {
	return &AdminService{store: store}
}

// AccountDetail is the full administrative view of one account
type AccountDetail struct {
	Account      *models.Account
	Transactions []*models.Transaction
	Loans        []*models.Loan
}

// LoanDetail pairs a loan with its borrower for administrative listings
type LoanDetail struct {
	Loan          *models.Loan
	AccountNumber string
	FullName      string
}

// TellerRequestDetail pairs a teller request with its requester
type TellerRequestDetail struct {
	Request       *models.TellerRequest
	AccountNumber string
	FullName      string
}

// ListAccounts returns all accounts
func (s *AdminService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, errInternal("list accounts", err)
	}
	return accounts, nil
}

// AccountDetail returns one account with its transactions and loans
func (s *AdminService) AccountDetail(ctx context.Context, accountNumber string) (*AccountDetail, error) {
	account, err := s.store.GetAccountByNumber(ctx, accountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &ServiceError{Code: ErrCodeNotFound, Message: "account not found"}
	}
	if err != nil {
		return nil, errInternal("look up account", err)
	}

	transactions, err := s.store.ListTransactions(ctx, account.ID)
	if err != nil {
		return nil, errInternal("list transactions", err)
	}
	loans, err := s.store.ListAccountLoans(ctx, account.ID)
	if err != nil {
		return nil, errInternal("list loans", err)
	}

	return &AccountDetail{
		Account:      account,
		Transactions: transactions,
		Loans:        loans,
	}, nil
}

// CloseAccount marks an account closed. Closed is terminal: the status
// monitor never reverts it, and all further mutations are rejected.
func (s *AdminService) CloseAccount(ctx context.Context, accountNumber string) error {
	account, err := s.store.GetAccountByNumber(ctx, accountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return &ServiceError{Code: ErrCodeNotFound, Message: "account not found"}
	}
	if err != nil {
		return errInternal("look up account", err)
	}

	err = s.store.WithAccountLock(ctx, account.ID, func(ctx context.Context, tx repository.AccountTx) error {
		tx.Account().Status = models.AccountStatusClosed
		return tx.SaveAccount(ctx)
	})
	if err != nil {
		return errInternal("close account", err)
	}
	return nil
}

// ListLoans returns all loan applications with their borrowers, newest first
func (s *AdminService) ListLoans(ctx context.Context) ([]*LoanDetail, error) {
	loans, err := s.store.ListLoans(ctx)
	if err != nil {
		return nil, errInternal("list loans", err)
	}

	details := make([]*LoanDetail, 0, len(loans))
	for _, loan := range loans {
		account, err := s.store.GetAccountByID(ctx, loan.AccountID)
		if err != nil {
			return nil, errInternal("look up borrower", err)
		}
		details = append(details, &LoanDetail{
			Loan:          loan,
			AccountNumber: account.AccountNumber,
			FullName:      account.FullName,
		})
	}
	return details, nil
}

// ApproveLoan approves a pending loan and disburses the full principal into
// the account immediately. Settlement dates default to the borrower's
// preferred dates unless overridden.
func (s *AdminService) ApproveLoan(ctx context.Context, loanID uuid.UUID, overrideDate1, overrideDate2 *time.Time) error {
	loan, err := s.store.GetLoan(ctx, loanID)
	if errors.Is(err, models.ErrNotFound) {
		return &ServiceError{Code: ErrCodeNotFound, Message: "loan not found"}
	}
	if err != nil {
		return errInternal("look up loan", err)
	}

	err = s.store.WithAccountLock(ctx, loan.AccountID, func(ctx context.Context, tx repository.AccountTx) error {
		// Re-read under the lock so the pending check cannot race a
		// concurrent decision on the same loan.
		loan, err := tx.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != models.LoanStatusPending {
			return &ServiceError{Code: ErrCodeInvalidState, Message: "loan is not pending"}
		}

		date1 := models.DateOf(loan.PreferredDate1)
		date2 := models.DateOf(loan.PreferredDate2)
		if overrideDate1 != nil {
			date1 = models.DateOf(*overrideDate1)
		}
		if overrideDate2 != nil {
			date2 = models.DateOf(*overrideDate2)
		}

		now := time.Now().UTC()
		loan.Status = models.LoanStatusApproved
		loan.ApprovedDate1 = &date1
		loan.ApprovedDate2 = &date2
		loan.ApprovedAt = &now

		account := tx.Account()
		account.Balance += loan.Amount
		account.ReconcileStatus()
		if err := tx.SaveAccount(ctx); err != nil {
			return err
		}
		if _, err := tx.Record(ctx, models.TransactionTypeLoanDisbursement, loan.Amount,
			fmt.Sprintf("Loan disbursement for loan %s", loan.ID)); err != nil {
			return err
		}

		return tx.SaveLoan(ctx, loan)
	})

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	if err != nil {
		return errInternal("approve loan", err)
	}
	return nil
}

// DenyLoan denies a pending loan. Denied is terminal.
func (s *AdminService) DenyLoan(ctx context.Context, loanID uuid.UUID) error {
	loan, err := s.store.GetLoan(ctx, loanID)
	if errors.Is(err, models.ErrNotFound) {
		return &ServiceError{Code: ErrCodeNotFound, Message: "loan not found"}
	}
	if err != nil {
		return errInternal("look up loan", err)
	}

	err = s.store.WithAccountLock(ctx, loan.AccountID, func(ctx context.Context, tx repository.AccountTx) error {
		loan, err := tx.GetLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != models.LoanStatusPending {
			return &ServiceError{Code: ErrCodeInvalidState, Message: "loan is not pending"}
		}

		loan.Status = models.LoanStatusDenied
		return tx.SaveLoan(ctx, loan)
	})

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	if err != nil {
		return errInternal("deny loan", err)
	}
	return nil
}

// ListTellerRequests returns all teller requests with their requesters,
// newest first
func (s *AdminService) ListTellerRequests(ctx context.Context) ([]*TellerRequestDetail, error) {
	requests, err := s.store.ListTellerRequests(ctx)
	if err != nil {
		return nil, errInternal("list teller requests", err)
	}

	details := make([]*TellerRequestDetail, 0, len(requests))
	for _, request := range requests {
		account, err := s.store.GetAccountByID(ctx, request.AccountID)
		if err != nil {
			return nil, errInternal("look up requester", err)
		}
		details = append(details, &TellerRequestDetail{
			Request:       request,
			AccountNumber: account.AccountNumber,
			FullName:      account.FullName,
		})
	}
	return details, nil
}

// CompleteTellerRequest applies a pending deposit or withdrawal request to
// the account and marks the request completed. Completing an already
// completed request fails instead of reapplying the amount.
func (s *AdminService) CompleteTellerRequest(ctx context.Context, requestID uuid.UUID) error {
	request, err := s.store.GetTellerRequest(ctx, requestID)
	if errors.Is(err, models.ErrNotFound) {
		return &ServiceError{Code: ErrCodeNotFound, Message: "teller request not found"}
	}
	if err != nil {
		return errInternal("look up teller request", err)
	}

	err = s.store.WithAccountLock(ctx, request.AccountID, func(ctx context.Context, tx repository.AccountTx) error {
		request, err := tx.GetTellerRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.TellerRequestStatusPending {
			return &ServiceError{Code: ErrCodeInvalidState, Message: "teller request is not pending"}
		}

		account := tx.Account()
		var txType models.TransactionType
		var amount float64
		var description string
		switch request.Type {
		case models.TellerRequestTypeDeposit:
			account.Balance += request.Amount
			txType = models.TransactionTypeDeposit
			amount = request.Amount
			description = "Teller deposit"
		case models.TellerRequestTypeWithdrawal:
			account.Balance -= request.Amount
			txType = models.TransactionTypeWithdrawal
			amount = -request.Amount
			description = "Teller withdrawal"
		default:
			return &ServiceError{Code: ErrCodeInvalidState, Message: "unknown teller request type"}
		}
		account.ReconcileStatus()

		if err := tx.SaveAccount(ctx); err != nil {
			return err
		}
		if _, err := tx.Record(ctx, txType, amount, description); err != nil {
			return err
		}

		now := time.Now().UTC()
		request.Status = models.TellerRequestStatusCompleted
		request.CompletedAt = &now
		return tx.SaveTellerRequest(ctx, request)
	})

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	if err != nil {
		return errInternal("complete teller request", err)
	}
	return nil
}
