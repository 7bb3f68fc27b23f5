package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/google/uuid"
)

// memoryStore implements Store entirely in memory. It backs unit tests and
// standalone runs without a database. Per-account mutual exclusion uses one
// mutex per account; fn inside WithAccountLock works on staged copies that
// are written back only when fn succeeds, matching the transactional
// semantics of the Postgres store.
type memoryStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*models.Account
	byNumber map[string]uuid.UUID
	txns     map[uuid.UUID][]*models.Transaction
	loans    map[uuid.UUID]*models.Loan
	requests map[uuid.UUID]*models.TellerRequest
	locks    map[uuid.UUID]*sync.Mutex
}

// NewMemoryStore creates an empty in-memory Store
func NewMemoryStore() Store {
	return &memoryStore{
		accounts: make(map[uuid.UUID]*models.Account),
		byNumber: make(map[string]uuid.UUID),
		txns:     make(map[uuid.UUID][]*models.Transaction),
		loans:    make(map[uuid.UUID]*models.Loan),
		requests: make(map[uuid.UUID]*models.TellerRequest),
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *memoryStore) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byNumber[account.AccountNumber]; exists {
		return models.ErrDuplicateAccountNumber
	}

	cp := *account
	s.accounts[account.ID] = &cp
	s.byNumber[account.AccountNumber] = account.ID
	s.locks[account.ID] = &sync.Mutex{}
	return nil
}

func (s *memoryStore) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

func (s *memoryStore) GetAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byNumber[accountNumber]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *s.accounts[id]
	return &cp, nil
}

func (s *memoryStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		cp := *account
		accounts = append(accounts, &cp)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (s *memoryStore) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transactions := make([]*models.Transaction, 0, len(s.txns[accountID]))
	for _, txn := range s.txns[accountID] {
		cp := *txn
		transactions = append(transactions, &cp)
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Timestamp.After(transactions[j].Timestamp)
	})
	return transactions, nil
}

func (s *memoryStore) CreateLoan(ctx context.Context, loan *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *loan
	s.loans[loan.ID] = &cp
	return nil
}

func (s *memoryStore) GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loan, ok := s.loans[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *loan
	return &cp, nil
}

func (s *memoryStore) listLoans(filter func(*models.Loan) bool, newestFirst bool) []*models.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var loans []*models.Loan
	for _, loan := range s.loans {
		if filter(loan) {
			cp := *loan
			loans = append(loans, &cp)
		}
	}
	sort.Slice(loans, func(i, j int) bool {
		if newestFirst {
			return loans[i].AppliedAt.After(loans[j].AppliedAt)
		}
		return loans[i].AppliedAt.Before(loans[j].AppliedAt)
	})
	return loans
}

func (s *memoryStore) ListAccountLoans(ctx context.Context, accountID uuid.UUID) ([]*models.Loan, error) {
	return s.listLoans(func(l *models.Loan) bool { return l.AccountID == accountID }, true), nil
}

func (s *memoryStore) ListLoans(ctx context.Context) ([]*models.Loan, error) {
	return s.listLoans(func(*models.Loan) bool { return true }, true), nil
}

func (s *memoryStore) ListLoansByStatus(ctx context.Context, status models.LoanStatus) ([]*models.Loan, error) {
	return s.listLoans(func(l *models.Loan) bool { return l.Status == status }, false), nil
}

func (s *memoryStore) CreateTellerRequest(ctx context.Context, request *models.TellerRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *request
	s.requests[request.ID] = &cp
	return nil
}

func (s *memoryStore) GetTellerRequest(ctx context.Context, id uuid.UUID) (*models.TellerRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	request, ok := s.requests[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *request
	return &cp, nil
}

func (s *memoryStore) ListTellerRequests(ctx context.Context) ([]*models.TellerRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := make([]*models.TellerRequest, 0, len(s.requests))
	for _, request := range s.requests {
		cp := *request
		requests = append(requests, &cp)
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].RequestedAt.After(requests[j].RequestedAt)
	})
	return requests, nil
}

func (s *memoryStore) WithAccountLock(ctx context.Context, accountID uuid.UUID, fn func(ctx context.Context, tx AccountTx) error) error {
	s.mu.RLock()
	lock, ok := s.locks[accountID]
	s.mu.RUnlock()
	if !ok {
		return models.ErrNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	account := *s.accounts[accountID]
	s.mu.RUnlock()

	accountTx := &memoryAccountTx{store: s, account: &account}
	if err := fn(ctx, accountTx); err != nil {
		return err
	}

	accountTx.commit()
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

// memoryAccountTx stages all writes and applies them only when the lock
// body returns nil.
type memoryAccountTx struct {
	store        *memoryStore
	account      *models.Account
	savedAccount *models.Account
	savedTxns    []*models.Transaction
	savedLoans   []*models.Loan
	savedReqs    []*models.TellerRequest
}

func (t *memoryAccountTx) Account() *models.Account {
	return t.account
}

func (t *memoryAccountTx) SaveAccount(ctx context.Context) error {
	cp := *t.account
	t.savedAccount = &cp
	return nil
}

func (t *memoryAccountTx) Record(ctx context.Context, txType models.TransactionType, amount float64, description string) (*models.Transaction, error) {
	txn := &models.Transaction{
		ID:           uuid.New(),
		AccountID:    t.account.ID,
		Type:         txType,
		Amount:       amount,
		Description:  description,
		Timestamp:    time.Now().UTC(),
		BalanceAfter: t.account.Balance,
	}
	t.savedTxns = append(t.savedTxns, txn)
	return txn, nil
}

func (t *memoryAccountTx) GetLoan(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	for _, loan := range t.savedLoans {
		if loan.ID == id {
			cp := *loan
			return &cp, nil
		}
	}
	return t.store.GetLoan(ctx, id)
}

func (t *memoryAccountTx) SaveLoan(ctx context.Context, loan *models.Loan) error {
	cp := *loan
	t.savedLoans = append(t.savedLoans, &cp)
	return nil
}

func (t *memoryAccountTx) GetTellerRequest(ctx context.Context, id uuid.UUID) (*models.TellerRequest, error) {
	for _, request := range t.savedReqs {
		if request.ID == id {
			cp := *request
			return &cp, nil
		}
	}
	return t.store.GetTellerRequest(ctx, id)
}

func (t *memoryAccountTx) SaveTellerRequest(ctx context.Context, request *models.TellerRequest) error {
	cp := *request
	t.savedReqs = append(t.savedReqs, &cp)
	return nil
}

func (t *memoryAccountTx) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.savedAccount != nil {
		t.store.accounts[t.savedAccount.ID] = t.savedAccount
	}
	for _, txn := range t.savedTxns {
		t.store.txns[txn.AccountID] = append(t.store.txns[txn.AccountID], txn)
	}
	for _, loan := range t.savedLoans {
		t.store.loans[loan.ID] = loan
	}
	for _, request := range t.savedReqs {
		t.store.requests[request.ID] = request
	}
}
