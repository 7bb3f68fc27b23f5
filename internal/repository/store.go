// Package repository provides the ledger store: the single writer-of-record
// for accounts, transactions, loans and teller requests.
package repository

import (
	"context"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/google/uuid"
)

// Store is the ledger store. Plain reads and creates need no cross-entity
// coordination; every mutation of an account's balance, status or fee date,
// and every write to a loan or teller request that accompanies such a
// mutation, goes through WithAccountLock.
type Store interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)

	ListTransactions(ctx context.Context, accountID uuid.UUID) ([]*models.Transaction, error)

	CreateLoan(ctx context.Context, loan *models.Loan) error
	GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	ListAccountLoans(ctx context.Context, accountID uuid.UUID) ([]*models.Loan, error)
	ListLoans(ctx context.Context) ([]*models.Loan, error)
	ListLoansByStatus(ctx context.Context, status models.LoanStatus) ([]*models.Loan, error)

	CreateTellerRequest(ctx context.Context, request *models.TellerRequest) error
	GetTellerRequest(ctx context.Context, id uuid.UUID) (*models.TellerRequest, error)
	ListTellerRequests(ctx context.Context) ([]*models.TellerRequest, error)

	// WithAccountLock acquires exclusive access to one account's mutable
	// state, runs fn against a consistent snapshot and persists the changes
	// fn staged, or discards all of them if fn returns an error. All
	// interactive handlers and both settlement schedulers mutate account
	// state only through here.
	WithAccountLock(ctx context.Context, accountID uuid.UUID, fn func(ctx context.Context, tx AccountTx) error) error

	Close() error
}

// AccountTx is the view of one account's state inside WithAccountLock.
type AccountTx interface {
	// Account returns the locked account row. Callers mutate it in place
	// and persist with SaveAccount.
	Account() *models.Account
	SaveAccount(ctx context.Context) error

	// Record appends an immutable ledger entry stamped with the account's
	// current balance. It is the only write path for transactions and must
	// be called after the balance mutation it documents has been saved.
	Record(ctx context.Context, txType models.TransactionType, amount float64, description string) (*models.Transaction, error)

	GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	SaveLoan(ctx context.Context, loan *models.Loan) error

	GetTellerRequest(ctx context.Context, id uuid.UUID) (*models.TellerRequest, error)
	SaveTellerRequest(ctx context.Context, request *models.TellerRequest) error
}
