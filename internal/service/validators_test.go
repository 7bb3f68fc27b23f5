package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0.01))
	assert.NoError(t, ValidateAmount(1000000))
	assert.Error(t, ValidateAmount(0))
	assert.Error(t, ValidateAmount(-5))
}

func TestValidateFullName(t *testing.T) {
	assert.NoError(t, ValidateFullName("Milo Barker"))
	assert.Error(t, ValidateFullName(""))
	assert.Error(t, ValidateFullName(strings.Repeat("a", 101)))
}

func TestValidateDateOfBirth(t *testing.T) {
	assert.NoError(t, ValidateDateOfBirth(time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Error(t, ValidateDateOfBirth(time.Time{}))
	assert.Error(t, ValidateDateOfBirth(time.Now().AddDate(0, 0, 1)))
}

func TestValidateLoanDates(t *testing.T) {
	date1 := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	date2 := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateLoanDates(date1, date2))
	assert.NoError(t, ValidateLoanDates(date1, date1), "same-day settlement dates are allowed")
	assert.Error(t, ValidateLoanDates(date2, date1))
	assert.Error(t, ValidateLoanDates(time.Time{}, date2))
	assert.Error(t, ValidateLoanDates(date1, time.Time{}))
}

func TestValidateReason(t *testing.T) {
	assert.NoError(t, ValidateReason("new espresso machine"))
	assert.Error(t, ValidateReason(""))
	assert.Error(t, ValidateReason(strings.Repeat("a", 501)))
}
