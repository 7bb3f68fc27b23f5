package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the type of a ledger entry
type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "deposit"
	TransactionTypeWithdrawal       TransactionType = "withdrawal"
	TransactionTypeFee              TransactionType = "fee"
	TransactionTypeLoanDisbursement TransactionType = "loan_disbursement"
	TransactionTypeLoanPayment      TransactionType = "loan_payment"
)

// Transaction is an immutable ledger entry for account activity. Amount is
// signed; BalanceAfter is the account balance immediately after the entry
// was applied, so the running prefix sum of Amount over an account's history
// always matches BalanceAfter.
type Transaction struct {
	Timestamp    time.Time       `db:"timestamp"`
	Type         TransactionType `db:"transaction_type"`
	Description  string          `db:"description"`
	Amount       float64         `db:"amount"`
	BalanceAfter float64         `db:"balance_after"`
	ID           uuid.UUID       `db:"id"`
	AccountID    uuid.UUID       `db:"account_id"`
}
