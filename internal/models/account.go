package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus represents the lifecycle state of an account
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusOnHold AccountStatus = "on_hold"
	AccountStatusClosed AccountStatus = "closed"
)

// Account represents a customer account with its running balance
type Account struct {
	CreatedAt     time.Time     `db:"created_at"`
	LastFeeDate   time.Time     `db:"last_fee_date"`
	DateOfBirth   time.Time     `db:"date_of_birth"`
	AccountNumber string        `db:"account_number"`
	PIN           string        `db:"pin"`
	FullName      string        `db:"full_name"`
	Status        AccountStatus `db:"status"`
	Balance       float64       `db:"balance"`
	ID            uuid.UUID     `db:"id"`
}

// ReconcileStatus derives the account status from the balance sign.
// A negative balance places an active account on hold; a non-negative
// balance releases the hold. The closed state is terminal and is never
// touched here. Returns true if the status changed.
//
// Must run inside the same lock scope as the balance mutation it follows,
// so status never observably lags the balance.
func (a *Account) ReconcileStatus() bool {
	switch {
	case a.Balance < 0 && a.Status == AccountStatusActive:
		a.Status = AccountStatusOnHold
		return true
	case a.Balance >= 0 && a.Status == AccountStatusOnHold:
		a.Status = AccountStatusActive
		return true
	}
	return false
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
