package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bankofmilo/bank/internal/db"
	"github.com/bankofmilo/bank/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// postgresStore implements Store on PostgreSQL. Per-account mutual exclusion
// is provided by a SELECT ... FOR UPDATE row lock on the account inside a
// single transaction, so a scheduler tick and an interactive handler can
// never interleave mid-update on the same account.
type postgresStore struct {
	db *db.DB
}

// NewPostgresStore creates a Store backed by PostgreSQL
func NewPostgresStore(database *db.DB) Store {
	return &postgresStore{db: database}
}

const accountColumns = `id, account_number, pin, full_name, date_of_birth, balance, status, created_at, last_fee_date`

func scanAccount(row *sql.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.PIN,
		&account.FullName,
		&account.DateOfBirth,
		&account.Balance,
		&account.Status,
		&account.CreatedAt,
		&account.LastFeeDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &account, nil
}

func (s *postgresStore) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, account_number, pin, full_name, date_of_birth, balance, status, created_at, last_fee_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		account.ID,
		account.AccountNumber,
		account.PIN,
		account.FullName,
		account.DateOfBirth,
		account.Balance,
		account.Status,
		account.CreatedAt,
		account.LastFeeDate,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return models.ErrDuplicateAccountNumber
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (s *postgresStore) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(s.db.QueryRowContext(ctx, query, id))
}

func (s *postgresStore) GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return scanAccount(s.db.QueryRowContext(ctx, query, accountNumber))
}

func (s *postgresStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID,
			&account.AccountNumber,
			&account.PIN,
			&account.FullName,
			&account.DateOfBirth,
			&account.Balance,
			&account.Status,
			&account.CreatedAt,
			&account.LastFeeDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}

	return accounts, nil
}

const transactionColumns = `id, account_id, transaction_type, amount, description, timestamp, balance_after`

func (s *postgresStore) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1 ORDER BY timestamp DESC`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var txn models.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.AccountID,
			&txn.Type,
			&txn.Amount,
			&txn.Description,
			&txn.Timestamp,
			&txn.BalanceAfter,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return transactions, nil
}

const loanColumns = `id, account_id, amount, reason, preferred_date1, preferred_date2, status, payment_stage, approved_date1, approved_date2, applied_at, approved_at`

func (s *postgresStore) CreateLoan(ctx context.Context, loan *models.Loan) error {
	query := `
		INSERT INTO loans (id, account_id, amount, reason, preferred_date1, preferred_date2, status, payment_stage, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		loan.ID,
		loan.AccountID,
		loan.Amount,
		loan.Reason,
		loan.PreferredDate1,
		loan.PreferredDate2,
		loan.Status,
		loan.Stage,
		loan.AppliedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	return nil
}

func scanLoanRow(scan func(dest ...any) error) (*models.Loan, error) {
	var loan models.Loan
	var approvedDate1, approvedDate2, approvedAt sql.NullTime
	err := scan(
		&loan.ID,
		&loan.AccountID,
		&loan.Amount,
		&loan.Reason,
		&loan.PreferredDate1,
		&loan.PreferredDate2,
		&loan.Status,
		&loan.Stage,
		&approvedDate1,
		&approvedDate2,
		&loan.AppliedAt,
		&approvedAt,
	)
	if err != nil {
		return nil, err
	}
	if approvedDate1.Valid {
		loan.ApprovedDate1 = &approvedDate1.Time
	}
	if approvedDate2.Valid {
		loan.ApprovedDate2 = &approvedDate2.Time
	}
	if approvedAt.Valid {
		loan.ApprovedAt = &approvedAt.Time
	}
	return &loan, nil
}

func getLoan(ctx context.Context, q querier, id uuid.UUID) (*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	loan, err := scanLoanRow(q.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find loan: %w", err)
	}
	return loan, nil
}

func (s *postgresStore) GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	return getLoan(ctx, s.db, id)
}

func (s *postgresStore) listLoans(ctx context.Context, query string, args ...any) ([]*models.Loan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loan rows: %w", err)
	}

	return loans, nil
}

func (s *postgresStore) ListAccountLoans(ctx context.Context, accountID uuid.UUID) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE account_id = $1 ORDER BY applied_at DESC`
	return s.listLoans(ctx, query, accountID)
}

func (s *postgresStore) ListLoans(ctx context.Context) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY applied_at DESC`
	return s.listLoans(ctx, query)
}

func (s *postgresStore) ListLoansByStatus(ctx context.Context, status models.LoanStatus) ([]*models.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE status = $1 ORDER BY applied_at`
	return s.listLoans(ctx, query, status)
}

const requestColumns = `id, account_id, request_type, amount, status, requested_at, completed_at`

func (s *postgresStore) CreateTellerRequest(ctx context.Context, request *models.TellerRequest) error {
	query := `
		INSERT INTO teller_requests (id, account_id, request_type, amount, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		request.ID,
		request.AccountID,
		request.Type,
		request.Amount,
		request.Status,
		request.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create teller request: %w", err)
	}

	return nil
}

func scanTellerRequestRow(scan func(dest ...any) error) (*models.TellerRequest, error) {
	var request models.TellerRequest
	var completedAt sql.NullTime
	err := scan(
		&request.ID,
		&request.AccountID,
		&request.Type,
		&request.Amount,
		&request.Status,
		&request.RequestedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		request.CompletedAt = &completedAt.Time
	}
	return &request, nil
}

func getTellerRequest(ctx context.Context, q querier, id uuid.UUID) (*models.TellerRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM teller_requests WHERE id = $1`

	request, err := scanTellerRequestRow(q.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find teller request: %w", err)
	}
	return request, nil
}

func (s *postgresStore) GetTellerRequest(ctx context.Context, id uuid.UUID) (*models.TellerRequest, error) {
	return getTellerRequest(ctx, s.db, id)
}

func (s *postgresStore) ListTellerRequests(ctx context.Context) ([]*models.TellerRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM teller_requests ORDER BY requested_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teller requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.TellerRequest
	for rows.Next() {
		request, err := scanTellerRequestRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan teller request row: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teller request rows: %w", err)
	}

	return requests, nil
}

func (s *postgresStore) WithAccountLock(ctx context.Context, accountID uuid.UUID, fn func(ctx context.Context, tx AccountTx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	account, err := scanAccount(sqlTx.QueryRowContext(ctx, query, accountID))
	if err != nil {
		return err
	}

	accountTx := &postgresAccountTx{tx: sqlTx, account: account}
	if err := fn(ctx, accountTx); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *postgresStore) Close() error {
	return s.db.Close()
}

// postgresAccountTx operates on the account row locked by WithAccountLock
type postgresAccountTx struct {
	tx      *sql.Tx
	account *models.Account
}

func (t *postgresAccountTx) Account() *models.Account {
	return t.account
}

func (t *postgresAccountTx) SaveAccount(ctx context.Context) error {
	query := `
		UPDATE accounts
		SET balance = $2, status = $3, last_fee_date = $4
		WHERE id = $1
	`

	_, err := t.tx.ExecContext(ctx, query,
		t.account.ID,
		t.account.Balance,
		t.account.Status,
		t.account.LastFeeDate,
	)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	return nil
}

func (t *postgresAccountTx) Record(ctx context.Context, txType models.TransactionType, amount float64, description string) (*models.Transaction, error) {
	txn := &models.Transaction{
		ID:           uuid.New(),
		AccountID:    t.account.ID,
		Type:         txType,
		Amount:       amount,
		Description:  description,
		Timestamp:    time.Now().UTC(),
		BalanceAfter: t.account.Balance,
	}

	query := `
		INSERT INTO transactions (id, account_id, transaction_type, amount, description, timestamp, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := t.tx.ExecContext(ctx, query,
		txn.ID,
		txn.AccountID,
		txn.Type,
		txn.Amount,
		txn.Description,
		txn.Timestamp,
		txn.BalanceAfter,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	return txn, nil
}

func (t *postgresAccountTx) GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	return getLoan(ctx, t.tx, id)
}

func (t *postgresAccountTx) SaveLoan(ctx context.Context, loan *models.Loan) error {
	query := `
		UPDATE loans
		SET status = $2, payment_stage = $3, approved_date1 = $4, approved_date2 = $5, approved_at = $6
		WHERE id = $1
	`

	_, err := t.tx.ExecContext(ctx, query,
		loan.ID,
		loan.Status,
		loan.Stage,
		loan.ApprovedDate1,
		loan.ApprovedDate2,
		loan.ApprovedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}

	return nil
}

func (t *postgresAccountTx) GetTellerRequest(ctx context.Context, id uuid.UUID) (*models.TellerRequest, error) {
	return getTellerRequest(ctx, t.tx, id)
}

func (t *postgresAccountTx) SaveTellerRequest(ctx context.Context, request *models.TellerRequest) error {
	query := `
		UPDATE teller_requests
		SET status = $2, completed_at = $3
		WHERE id = $1
	`

	_, err := t.tx.ExecContext(ctx, query,
		request.ID,
		request.Status,
		request.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save teller request: %w", err)
	}

	return nil
}
