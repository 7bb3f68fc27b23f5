package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/bankofmilo/bank/internal/repository"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedAccount(t *testing.T, store repository.Store, balance float64, status models.AccountStatus, lastFeeDate time.Time) *models.Account {
	t.Helper()

	now := time.Now().UTC()
	account := &models.Account{
		ID:            uuid.New(),
		AccountNumber: gofakeit.DigitN(16),
		PIN:           gofakeit.DigitN(3),
		FullName:      gofakeit.Name(),
		DateOfBirth:   models.DateOf(now.AddDate(-35, 0, 0)),
		Balance:       balance,
		Status:        status,
		CreatedAt:     now,
		LastFeeDate:   models.DateOf(lastFeeDate),
	}
	require.NoError(t, store.CreateAccount(context.Background(), account))
	return account
}

func newFeeProcessor(store repository.Store, now time.Time) *FeeProcessor {
	p := NewFeeProcessor(store, 5.0, 30, testLogger())
	p.now = func() time.Time { return now }
	return p
}

func TestFeeProcessor_RunTick(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("no fee within billing period", func(t *testing.T) {
		store := repository.NewMemoryStore()
		account := seedAccount(t, store, 100, models.AccountStatusActive, now.AddDate(0, 0, -29))

		require.NoError(t, newFeeProcessor(store, now).RunTick(ctx))

		got, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, got.Balance)

		transactions, err := store.ListTransactions(ctx, account.ID)
		require.NoError(t, err)
		assert.Empty(t, transactions)
	})

	t.Run("charges fee once period has elapsed", func(t *testing.T) {
		store := repository.NewMemoryStore()
		account := seedAccount(t, store, 100, models.AccountStatusActive, now.AddDate(0, 0, -31))

		require.NoError(t, newFeeProcessor(store, now).RunTick(ctx))

		got, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, 95.0, got.Balance)
		assert.Equal(t, models.DateOf(now), got.LastFeeDate)

		transactions, err := store.ListTransactions(ctx, account.ID)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, models.TransactionTypeFee, transactions[0].Type)
		assert.Equal(t, -5.0, transactions[0].Amount)
		assert.Equal(t, 95.0, transactions[0].BalanceAfter)
	})

	t.Run("second tick on the same day charges nothing", func(t *testing.T) {
		store := repository.NewMemoryStore()
		account := seedAccount(t, store, 100, models.AccountStatusActive, now.AddDate(0, 0, -31))
		processor := newFeeProcessor(store, now)

		require.NoError(t, processor.RunTick(ctx))
		require.NoError(t, processor.RunTick(ctx))

		got, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, 95.0, got.Balance, "advancing last_fee_date must make the fee idempotent within a period")
	})

	t.Run("long outage charges a single fee, no catch up", func(t *testing.T) {
		store := repository.NewMemoryStore()
		account := seedAccount(t, store, 100, models.AccountStatusActive, now.AddDate(0, 0, -95))

		require.NoError(t, newFeeProcessor(store, now).RunTick(ctx))

		got, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, 95.0, got.Balance)
	})

	t.Run("closed accounts are skipped", func(t *testing.T) {
		store := repository.NewMemoryStore()
		account := seedAccount(t, store, 100, models.AccountStatusClosed, now.AddDate(0, 0, -60))

		require.NoError(t, newFeeProcessor(store, now).RunTick(ctx))

		got, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, got.Balance)
	})

	t.Run("fee may overdraw and puts the account on hold", func(t *testing.T) {
		store := repository.NewMemoryStore()
		account := seedAccount(t, store, 2, models.AccountStatusActive, now.AddDate(0, 0, -31))

		require.NoError(t, newFeeProcessor(store, now).RunTick(ctx))

		got, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, -3.0, got.Balance)
		assert.Equal(t, models.AccountStatusOnHold, got.Status)
	})

	t.Run("on-hold accounts are still charged", func(t *testing.T) {
		store := repository.NewMemoryStore()
		account := seedAccount(t, store, -10, models.AccountStatusOnHold, now.AddDate(0, 0, -31))

		require.NoError(t, newFeeProcessor(store, now).RunTick(ctx))

		got, err := store.GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, -15.0, got.Balance)
		assert.Equal(t, models.AccountStatusOnHold, got.Status)
	})
}

// A deposit racing a fee tick must interleave cleanly: both mutations land,
// each with its own transaction record.
func TestFeeProcessor_ConcurrentWithDeposit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	store := repository.NewMemoryStore()
	account := seedAccount(t, store, 100, models.AccountStatusActive, now.AddDate(0, 0, -31))
	processor := newFeeProcessor(store, now)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, processor.RunTick(ctx))
	}()
	go func() {
		defer wg.Done()
		err := store.WithAccountLock(ctx, account.ID, func(ctx context.Context, tx repository.AccountTx) error {
			tx.Account().Balance += 50
			if err := tx.SaveAccount(ctx); err != nil {
				return err
			}
			_, err := tx.Record(ctx, models.TransactionTypeDeposit, 50, "Teller deposit")
			return err
		})
		assert.NoError(t, err)
	}()
	wg.Wait()

	got, err := store.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 145.0, got.Balance)

	transactions, err := store.ListTransactions(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, transactions, 2)
}

func TestDaysBetween(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, daysBetween(from, from))
	assert.Equal(t, 30, daysBetween(from, from.AddDate(0, 0, 30)))
	assert.Equal(t, 31, daysBetween(from, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}
