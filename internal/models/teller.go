package models

import (
	"time"

	"github.com/google/uuid"
)

// TellerRequestType represents the direction of a teller (ATM) request
type TellerRequestType string

const (
	TellerRequestTypeDeposit    TellerRequestType = "deposit"
	TellerRequestTypeWithdrawal TellerRequestType = "withdrawal"
)

// TellerRequestStatus represents the state of a teller request
type TellerRequestStatus string

const (
	TellerRequestStatusPending   TellerRequestStatus = "pending"
	TellerRequestStatusCompleted TellerRequestStatus = "completed"
)

// TellerRequest is a caller-initiated deposit or withdrawal that affects the
// account balance only once an administrator completes it. Completed is
// terminal; requests are created in pending.
type TellerRequest struct {
	RequestedAt time.Time           `db:"requested_at"`
	CompletedAt *time.Time          `db:"completed_at"`
	Type        TellerRequestType   `db:"request_type"`
	Status      TellerRequestStatus `db:"status"`
	Amount      float64             `db:"amount"`
	ID          uuid.UUID           `db:"id"`
	AccountID   uuid.UUID           `db:"account_id"`
}
