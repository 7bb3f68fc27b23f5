// Package service implements the interactive mutation handlers consumed by
// the request layer. Every balance mutation runs inside a single
// WithAccountLock acquisition together with the transaction record and the
// status reconciliation it entails.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/bankofmilo/bank/internal/models"
	"github.com/bankofmilo/bank/internal/repository"
	"github.com/google/uuid"
)

const (
	accountNumberLength = 16
	pinLength           = 3
)

// AccountService handles account opening and authenticated reads
type AccountService struct {
	store repository.Store
}

// NewAccountService creates a new AccountService
func NewAccountService(store repository.Store) *AccountService {
	return &AccountService{store: store}
}

// Open creates a new account with a generated number and PIN and a zero
// balance. Number generation retries on the rare collision until the number
// is free.
func (s *AccountService) Open(ctx context.Context, fullName string, dateOfBirth time.Time) (*models.Account, error) {
	if err := ValidateFullName(fullName); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidState, Message: err.Error()}
	}
	if err := ValidateDateOfBirth(dateOfBirth); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidDate, Message: err.Error()}
	}

	now := time.Now().UTC()
	for {
		account := &models.Account{
			ID:            uuid.New(),
			AccountNumber: randomDigits(accountNumberLength),
			PIN:           randomDigits(pinLength),
			FullName:      fullName,
			DateOfBirth:   models.DateOf(dateOfBirth),
			Balance:       0,
			Status:        models.AccountStatusActive,
			CreatedAt:     now,
			LastFeeDate:   models.DateOf(now),
		}

		err := s.store.CreateAccount(ctx, account)
		if errors.Is(err, models.ErrDuplicateAccountNumber) {
			continue
		}
		if err != nil {
			return nil, errInternal("create account", err)
		}
		return account, nil
	}
}

// Balance returns the authenticated account with its balance and status
func (s *AccountService) Balance(ctx context.Context, accountNumber, pin string) (*models.Account, error) {
	return authenticate(ctx, s.store, accountNumber, pin)
}

// Authenticate verifies the account number and PIN and returns the account
func (s *AccountService) Authenticate(ctx context.Context, accountNumber, pin string) (*models.Account, error) {
	return authenticate(ctx, s.store, accountNumber, pin)
}

// History returns the account's transaction log, newest first
func (s *AccountService) History(ctx context.Context, accountNumber, pin string) ([]*models.Transaction, error) {
	account, err := authenticate(ctx, s.store, accountNumber, pin)
	if err != nil {
		return nil, err
	}

	transactions, err := s.store.ListTransactions(ctx, account.ID)
	if err != nil {
		return nil, errInternal("list transactions", err)
	}
	return transactions, nil
}

// Exists reports whether an account with the given number exists and, if so,
// its status. No PIN is required; only existence and status are revealed.
func (s *AccountService) Exists(ctx context.Context, accountNumber string) (models.AccountStatus, bool, error) {
	account, err := s.store.GetAccountByNumber(ctx, accountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errInternal("look up account", err)
	}
	return account.Status, true, nil
}

// authenticate resolves an account by number and verifies the PIN. Both a
// missing account and a wrong PIN yield the same credential error, so the
// response does not reveal which part was wrong.
func authenticate(ctx context.Context, store repository.Store, accountNumber, pin string) (*models.Account, error) {
	account, err := store.GetAccountByNumber(ctx, accountNumber)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errInvalidCredentials()
	}
	if err != nil {
		return nil, errInternal("look up account", err)
	}
	if account.PIN != pin {
		return nil, errInvalidCredentials()
	}
	return account, nil
}

// randomDigits returns n cryptographically random decimal digits
func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits)
}
