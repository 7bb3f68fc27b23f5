package service

import (
	"context"
	"testing"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/bankofmilo/bank/internal/repository"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_Open(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		dob := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
		account, err := svc.Open(ctx, gofakeit.Name(), dob)
		require.NoError(t, err)

		assert.Len(t, account.AccountNumber, 16)
		assert.Len(t, account.PIN, 3)
		assert.Equal(t, 0.0, account.Balance)
		assert.Equal(t, models.AccountStatusActive, account.Status)
		assert.Equal(t, models.DateOf(time.Now().UTC()), account.LastFeeDate)

		got, err := store.GetAccountByNumber(ctx, account.AccountNumber)
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.Open(ctx, "", time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC))
		require.Error(t, err)
		assert.Equal(t, ErrCodeInvalidState, errCode(t, err))
	})

	t.Run("future date of birth rejected", func(t *testing.T) {
		_, err := svc.Open(ctx, gofakeit.Name(), time.Now().AddDate(1, 0, 0))
		require.Error(t, err)
		assert.Equal(t, ErrCodeInvalidDate, errCode(t, err))
	})
}

func TestAccountService_Authenticate(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	account := seedAccount(t, store, 250, models.AccountStatusActive)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, account.AccountNumber, account.PIN)
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Equal(t, 250.0, got.Balance)
	})

	tests := []struct {
		name          string
		accountNumber string
		pin           string
	}{
		{"wrong pin", "", "~~~"},
		{"unknown account number", "9999999999999999", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number := tt.accountNumber
			if number == "" {
				number = account.AccountNumber
			}
			pin := tt.pin
			if pin == "" {
				pin = account.PIN
			}

			_, err := svc.Authenticate(ctx, number, pin)
			require.Error(t, err)
			assert.Equal(t, ErrCodeInvalidCredentials, errCode(t, err),
				"wrong PIN and unknown account must be indistinguishable")
		})
	}
}

func TestAccountService_History(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	account := seedAccount(t, store, 0, models.AccountStatusActive)

	err := store.WithAccountLock(ctx, account.ID, func(ctx context.Context, tx repository.AccountTx) error {
		tx.Account().Balance += 100
		if err := tx.SaveAccount(ctx); err != nil {
			return err
		}
		_, err := tx.Record(ctx, models.TransactionTypeDeposit, 100, "Teller deposit")
		return err
	})
	require.NoError(t, err)

	transactions, err := svc.History(ctx, account.AccountNumber, account.PIN)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, models.TransactionTypeDeposit, transactions[0].Type)
	assert.Equal(t, 100.0, transactions[0].BalanceAfter)

	_, err = svc.History(ctx, account.AccountNumber, "bad")
	assert.Equal(t, ErrCodeInvalidCredentials, errCode(t, err))
}

func TestAccountService_Exists(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	account := seedAccount(t, store, 0, models.AccountStatusOnHold)

	status, exists, err := svc.Exists(ctx, account.AccountNumber)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, models.AccountStatusOnHold, status)

	_, exists, err = svc.Exists(ctx, "9999999999999999")
	require.NoError(t, err)
	assert.False(t, exists)
}
