package service

import (
	"context"
	"testing"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/bankofmilo/bank/internal/repository"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// seedAccount inserts an account directly into the store, bypassing the
// opening flow, so tests control the balance and status.
func seedAccount(t *testing.T, store repository.Store, balance float64, status models.AccountStatus) *models.Account {
	t.Helper()

	now := time.Now().UTC()
	account := &models.Account{
		ID:            uuid.New(),
		AccountNumber: gofakeit.DigitN(16),
		PIN:           gofakeit.DigitN(3),
		FullName:      gofakeit.Name(),
		DateOfBirth:   models.DateOf(now.AddDate(-40, 0, 0)),
		Balance:       balance,
		Status:        status,
		CreatedAt:     now,
		LastFeeDate:   models.DateOf(now),
	}
	require.NoError(t, store.CreateAccount(context.Background(), account))
	return account
}

func seedLoan(t *testing.T, store repository.Store, account *models.Account, amount float64, status models.LoanStatus) *models.Loan {
	t.Helper()

	now := time.Now().UTC()
	loan := &models.Loan{
		ID:             uuid.New(),
		AccountID:      account.ID,
		Amount:         amount,
		Reason:         gofakeit.Sentence(4),
		PreferredDate1: models.DateOf(now.AddDate(0, 1, 0)),
		PreferredDate2: models.DateOf(now.AddDate(0, 2, 0)),
		Status:         status,
		Stage:          models.PaymentStageNone,
		AppliedAt:      now,
	}
	require.NoError(t, store.CreateLoan(context.Background(), loan))
	return loan
}

// errCode extracts the ServiceError code, failing the test if err is not a
// ServiceError.
func errCode(t *testing.T, err error) string {
	t.Helper()

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	return svcErr.Code
}
