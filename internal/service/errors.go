package service

import "fmt"

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeAccountNotActive   = "account_not_active"
	ErrCodeInsufficientFunds  = "insufficient_funds"
	ErrCodeInvalidAmount      = "invalid_amount"
	ErrCodeInvalidDate        = "invalid_date"
	ErrCodeNotFound           = "not_found"
	ErrCodeInvalidState       = "invalid_state"
	ErrCodeInternalError      = "internal_error"
)

func errInvalidCredentials() *ServiceError {
	return &ServiceError{
		Code:    ErrCodeInvalidCredentials,
		Message: "invalid account number or PIN",
	}
}

func errInternal(op string, err error) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeInternalError,
		Message: fmt.Sprintf("failed to %s", op),
		Err:     err,
	}
}
