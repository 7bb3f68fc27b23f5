package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T) *models.Account {
	t.Helper()

	now := time.Now().UTC()
	return &models.Account{
		ID:            uuid.New(),
		AccountNumber: gofakeit.DigitN(16),
		PIN:           gofakeit.DigitN(3),
		FullName:      gofakeit.Name(),
		DateOfBirth:   models.DateOf(now.AddDate(-30, 0, 0)),
		Balance:       0,
		Status:        models.AccountStatusActive,
		CreatedAt:     now,
		LastFeeDate:   models.DateOf(now),
	}
}

func TestMemoryStore_AccountCRUD(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	account := newTestAccount(t)
	require.NoError(t, store.CreateAccount(ctx, account))

	t.Run("get by id", func(t *testing.T) {
		got, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.AccountNumber, got.AccountNumber)
	})

	t.Run("get by number", func(t *testing.T) {
		got, err := store.GetAccountByNumber(ctx, account.AccountNumber)
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
	})

	t.Run("missing account", func(t *testing.T) {
		_, err := store.GetAccountByID(ctx, uuid.New())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("duplicate account number", func(t *testing.T) {
		dup := newTestAccount(t)
		dup.AccountNumber = account.AccountNumber
		err := store.CreateAccount(ctx, dup)
		assert.ErrorIs(t, err, models.ErrDuplicateAccountNumber)
	})

	t.Run("returned snapshots are copies", func(t *testing.T) {
		got, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		got.Balance = 9999

		fresh, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, fresh.Balance, "mutating a snapshot must not affect the store")
	})
}

func TestMemoryStore_WithAccountLock(t *testing.T) {
	ctx := context.Background()

	t.Run("persists staged changes on success", func(t *testing.T) {
		store := NewMemoryStore()
		account := newTestAccount(t)
		require.NoError(t, store.CreateAccount(ctx, account))

		err := store.WithAccountLock(ctx, account.ID, func(ctx context.Context, tx AccountTx) error {
			tx.Account().Balance += 100
			if err := tx.SaveAccount(ctx); err != nil {
				return err
			}
			_, err := tx.Record(ctx, models.TransactionTypeDeposit, 100, "Teller deposit")
			return err
		})
		require.NoError(t, err)

		got, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, got.Balance)

		transactions, err := store.ListTransactions(ctx, account.ID)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, 100.0, transactions[0].BalanceAfter)
	})

	t.Run("discards staged changes on error", func(t *testing.T) {
		store := NewMemoryStore()
		account := newTestAccount(t)
		require.NoError(t, store.CreateAccount(ctx, account))

		wantErr := errors.New("boom")
		err := store.WithAccountLock(ctx, account.ID, func(ctx context.Context, tx AccountTx) error {
			tx.Account().Balance += 100
			if err := tx.SaveAccount(ctx); err != nil {
				return err
			}
			if _, err := tx.Record(ctx, models.TransactionTypeDeposit, 100, "Teller deposit"); err != nil {
				return err
			}
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)

		got, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got.Balance, "failed unit of work must not change the balance")

		transactions, err := store.ListTransactions(ctx, account.ID)
		require.NoError(t, err)
		assert.Empty(t, transactions, "failed unit of work must not record transactions")
	})

	t.Run("unknown account", func(t *testing.T) {
		store := NewMemoryStore()
		err := store.WithAccountLock(ctx, uuid.New(), func(ctx context.Context, tx AccountTx) error {
			return nil
		})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestMemoryStore_ConcurrentDeposits(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	account := newTestAccount(t)
	require.NoError(t, store.CreateAccount(ctx, account))

	const goroutines = 50
	const amount = 10.0

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.WithAccountLock(ctx, account.ID, func(ctx context.Context, tx AccountTx) error {
				tx.Account().Balance += amount
				if err := tx.SaveAccount(ctx); err != nil {
					return err
				}
				_, err := tx.Record(ctx, models.TransactionTypeDeposit, amount, "Teller deposit")
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, goroutines*amount, got.Balance, "lost update detected")

	transactions, err := store.ListTransactions(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, transactions, goroutines)

	// The ledger invariant: the balance equals the sum of all amounts.
	var sum float64
	for _, txn := range transactions {
		sum += txn.Amount
	}
	assert.Equal(t, got.Balance, sum)
}

func TestMemoryStore_LoanAndRequestLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	account := newTestAccount(t)
	require.NoError(t, store.CreateAccount(ctx, account))

	date1 := models.DateOf(time.Now().UTC())
	date2 := date1.AddDate(0, 1, 0)
	loan := &models.Loan{
		ID:             uuid.New(),
		AccountID:      account.ID,
		Amount:         1000,
		Reason:         "equipment",
		PreferredDate1: date1,
		PreferredDate2: date2,
		Status:         models.LoanStatusPending,
		AppliedAt:      time.Now().UTC(),
	}
	require.NoError(t, store.CreateLoan(ctx, loan))

	t.Run("loan visible by status", func(t *testing.T) {
		pending, err := store.ListLoansByStatus(ctx, models.LoanStatusPending)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, loan.ID, pending[0].ID)

		approved, err := store.ListLoansByStatus(ctx, models.LoanStatusApproved)
		require.NoError(t, err)
		assert.Empty(t, approved)
	})

	t.Run("loan updates under account lock", func(t *testing.T) {
		err := store.WithAccountLock(ctx, account.ID, func(ctx context.Context, tx AccountTx) error {
			locked, err := tx.GetLoan(ctx, loan.ID)
			if err != nil {
				return err
			}
			locked.Status = models.LoanStatusApproved
			return tx.SaveLoan(ctx, locked)
		})
		require.NoError(t, err)

		got, err := store.GetLoan(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, models.LoanStatusApproved, got.Status)
	})

	t.Run("teller request round trip", func(t *testing.T) {
		request := &models.TellerRequest{
			ID:          uuid.New(),
			AccountID:   account.ID,
			Type:        models.TellerRequestTypeDeposit,
			Amount:      50,
			Status:      models.TellerRequestStatusPending,
			RequestedAt: time.Now().UTC(),
		}
		require.NoError(t, store.CreateTellerRequest(ctx, request))

		got, err := store.GetTellerRequest(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TellerRequestStatusPending, got.Status)

		all, err := store.ListTellerRequests(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
