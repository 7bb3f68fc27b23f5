package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccount_ReconcileStatus(t *testing.T) {
	tests := []struct {
		name        string
		balance     float64
		status      AccountStatus
		wantStatus  AccountStatus
		wantChanged bool
	}{
		{
			name:        "active account goes on hold when balance turns negative",
			balance:     -0.01,
			status:      AccountStatusActive,
			wantStatus:  AccountStatusOnHold,
			wantChanged: true,
		},
		{
			name:        "on-hold account reactivates when balance recovers",
			balance:     0,
			status:      AccountStatusOnHold,
			wantStatus:  AccountStatusActive,
			wantChanged: true,
		},
		{
			name:        "active account with positive balance unchanged",
			balance:     100,
			status:      AccountStatusActive,
			wantStatus:  AccountStatusActive,
			wantChanged: false,
		},
		{
			name:        "on-hold account with negative balance unchanged",
			balance:     -50,
			status:      AccountStatusOnHold,
			wantStatus:  AccountStatusOnHold,
			wantChanged: false,
		},
		{
			name:        "closed account never reverted on positive balance",
			balance:     100,
			status:      AccountStatusClosed,
			wantStatus:  AccountStatusClosed,
			wantChanged: false,
		},
		{
			name:        "closed account never reverted on negative balance",
			balance:     -100,
			status:      AccountStatusClosed,
			wantStatus:  AccountStatusClosed,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &Account{Balance: tt.balance, Status: tt.status}

			changed := account.ReconcileStatus()

			assert.Equal(t, tt.wantChanged, changed, "changed mismatch")
			assert.Equal(t, tt.wantStatus, account.Status, "status mismatch")
		})
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, 3, 15, 23, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), DateOf(ts))
}
