package models

import "errors"

// Domain errors that can be returned by the ledger store
var (
	// ErrDuplicateAccountNumber indicates an account with the same account number already exists
	ErrDuplicateAccountNumber = errors.New("duplicate account number")

	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")
)
