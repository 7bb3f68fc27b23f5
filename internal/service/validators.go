package service

import (
	"fmt"
	"time"
)

// ValidateAmount checks if a monetary amount is valid (positive)
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}

	return nil
}

// ValidateFullName checks the account holder name
func ValidateFullName(fullName string) error {
	if fullName == "" {
		return fmt.Errorf("full name cannot be empty")
	}
	if len(fullName) > 100 {
		return fmt.Errorf("full name too long: must be at most 100 characters")
	}

	return nil
}

// ValidateDateOfBirth checks that a date of birth is set and not in the future
func ValidateDateOfBirth(dob time.Time) error {
	if dob.IsZero() {
		return fmt.Errorf("date of birth is required")
	}
	if dob.After(time.Now()) {
		return fmt.Errorf("date of birth cannot be in the future")
	}

	return nil
}

// ValidateLoanDates checks the two settlement dates of a loan application.
// Both must be set and the second must not precede the first.
func ValidateLoanDates(date1, date2 time.Time) error {
	if date1.IsZero() || date2.IsZero() {
		return fmt.Errorf("both settlement dates are required")
	}
	if date2.Before(date1) {
		return fmt.Errorf("second settlement date must not precede the first")
	}

	return nil
}

// ValidateReason checks the free-text reason of a loan application
func ValidateReason(reason string) error {
	if reason == "" {
		return fmt.Errorf("reason cannot be empty")
	}
	if len(reason) > 500 {
		return fmt.Errorf("reason too long: must be at most 500 characters")
	}

	return nil
}
