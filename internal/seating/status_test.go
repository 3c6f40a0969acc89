package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    SeatStatus
		to      SeatStatus
		allowed bool
	}{
		{"available to held", StatusAvailable, StatusHeld, true},
		{"available to blocked", StatusAvailable, StatusBlocked, true},
		{"available to disabled", StatusAvailable, StatusDisabled, true},
		{"available to sold skips hold", StatusAvailable, StatusSold, false},
		{"held to available", StatusHeld, StatusAvailable, true},
		{"held to sold", StatusHeld, StatusSold, true},
		{"held to blocked", StatusHeld, StatusBlocked, true},
		{"held to disabled", StatusHeld, StatusDisabled, false},
		{"blocked to available", StatusBlocked, StatusAvailable, true},
		{"blocked to held", StatusBlocked, StatusHeld, false},
		{"blocked to sold", StatusBlocked, StatusSold, false},
		{"disabled to available", StatusDisabled, StatusAvailable, true},
		{"disabled to held", StatusDisabled, StatusHeld, false},
		{"sold is terminal to available", StatusSold, StatusAvailable, false},
		{"sold is terminal to held", StatusSold, StatusHeld, false},
		{"sold is terminal to blocked", StatusSold, StatusBlocked, false},
		{"self transition available", StatusAvailable, StatusAvailable, false},
		{"self transition held", StatusHeld, StatusHeld, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []SeatStatus{StatusAvailable, StatusHeld, StatusSold, StatusBlocked, StatusDisabled} {
		assert.True(t, IsValidStatus(s), string(s))
	}

	assert.False(t, IsValidStatus(SeatStatus("reserved")))
	assert.False(t, IsValidStatus(SeatStatus("")))
}

func TestConflictErrorClassification(t *testing.T) {
	err := &ConflictError{
		SeatUID:        "FLOOR-A-1",
		Reason:         ConflictStaleVersion,
		CurrentStatus:  StatusHeld,
		CurrentVersion: 3,
	}

	assert.True(t, IsConflict(err))
	assert.Contains(t, err.Error(), "FLOOR-A-1")
	assert.Contains(t, err.Error(), "stale_version")

	assert.False(t, IsConflict(ErrSeatNotFound))
	assert.False(t, IsConflict(nil))
}
