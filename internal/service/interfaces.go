package service

import (
	"context"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/google/uuid"
)

// Accounts handles account opening and authenticated reads
type Accounts interface {
	Open(ctx context.Context, fullName string, dateOfBirth time.Time) (*models.Account, error)
	Balance(ctx context.Context, accountNumber, pin string) (*models.Account, error)
	Authenticate(ctx context.Context, accountNumber, pin string) (*models.Account, error)
	History(ctx context.Context, accountNumber, pin string) ([]*models.Transaction, error)
	Exists(ctx context.Context, accountNumber string) (models.AccountStatus, bool, error)
}

// Loans handles borrower-facing loan operations
type Loans interface {
	Apply(ctx context.Context, accountNumber, pin string, amount float64, reason string, preferredDate1, preferredDate2 time.Time) (*models.Loan, error)
	ListForAccount(ctx context.Context, accountNumber, pin string) ([]*models.Loan, error)
}

// Teller handles deposit and withdrawal requests
type Teller interface {
	RequestDeposit(ctx context.Context, accountNumber, pin string, amount float64) (*models.TellerRequest, error)
	RequestWithdrawal(ctx context.Context, accountNumber, pin string, amount float64) (*models.TellerRequest, error)
}

// Admin handles administrative operations
type Admin interface {
	ListAccounts(ctx context.Context) ([]*models.Account, error)
	AccountDetail(ctx context.Context, accountNumber string) (*AccountDetail, error)
	CloseAccount(ctx context.Context, accountNumber string) error
	ListLoans(ctx context.Context) ([]*LoanDetail, error)
	ApproveLoan(ctx context.Context, loanID uuid.UUID, overrideDate1, overrideDate2 *time.Time) error
	DenyLoan(ctx context.Context, loanID uuid.UUID) error
	ListTellerRequests(ctx context.Context) ([]*TellerRequestDetail, error)
	CompleteTellerRequest(ctx context.Context, requestID uuid.UUID) error
}

// Ensure concrete types implement interfaces
var (
	_ Accounts = (*AccountService)(nil)
	_ Loans    = (*LoanService)(nil)
	_ Teller   = (*TellerService)(nil)
	_ Admin    = (*AdminService)(nil)
)
