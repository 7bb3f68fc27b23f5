package models

import (
	"time"

	"github.com/google/uuid"
)

// LoanStatus represents the lifecycle state of a loan application
type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusApproved  LoanStatus = "approved"
	LoanStatusDenied    LoanStatus = "denied"
	LoanStatusCompleted LoanStatus = "completed"
)

// PaymentStage tracks settlement progress of an approved loan as an ordered
// sub-machine: the second payment can only ever follow the first, so "second
// done without first" is unrepresentable.
type PaymentStage int

const (
	PaymentStageNone PaymentStage = iota
	PaymentStageFirstPaid
	PaymentStageCompleted
)

// FirstPaymentDone reports whether the first settlement payment executed.
func (s PaymentStage) FirstPaymentDone() bool { return s >= PaymentStageFirstPaid }

// SecondPaymentDone reports whether the final settlement payment executed.
func (s PaymentStage) SecondPaymentDone() bool { return s == PaymentStageCompleted }

func (s PaymentStage) String() string {
	switch s {
	case PaymentStageFirstPaid:
		return "first_paid"
	case PaymentStageCompleted:
		return "completed"
	default:
		return "none"
	}
}

// Loan represents a loan application and its two-stage settlement schedule.
// Approved dates default to the borrower's preferred dates unless overridden
// at approval time; all four are calendar dates.
type Loan struct {
	AppliedAt      time.Time    `db:"applied_at"`
	ApprovedAt     *time.Time   `db:"approved_at"`
	PreferredDate1 time.Time    `db:"preferred_date1"`
	PreferredDate2 time.Time    `db:"preferred_date2"`
	ApprovedDate1  *time.Time   `db:"approved_date1"`
	ApprovedDate2  *time.Time   `db:"approved_date2"`
	Reason         string       `db:"reason"`
	Status         LoanStatus   `db:"status"`
	Stage          PaymentStage `db:"payment_stage"`
	Amount         float64      `db:"amount"`
	ID             uuid.UUID    `db:"id"`
	AccountID      uuid.UUID    `db:"account_id"`
}
