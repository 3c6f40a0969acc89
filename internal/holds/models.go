package holds

import (
	"time"

	"github.com/google/uuid"
)

// SeatHold is one outstanding reservation. The unique index on
// (event_seating_id, seat_uid) enforces at most one live hold per seat; the
// row is created atomically with the seat's transition to held and deleted
// on release, commit or expiry.
type SeatHold struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventSeatingID uuid.UUID `json:"event_seating_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_hold_seat"`
	SeatUID        string    `json:"seat_uid" gorm:"not null;size:160;uniqueIndex:idx_hold_seat"`
	SessionUID     string    `json:"session_uid" gorm:"not null;size:120;index"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt      time.Time `json:"expires_at" gorm:"not null;index"`
}

// RemainingSeconds is the countdown a UI shows. Purely derived; the sweep
// and the CAS are authoritative.
func (h *SeatHold) RemainingSeconds(now time.Time) int64 {
	remaining := int64(h.ExpiresAt.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TableName specifies the table name for GORM
func (SeatHold) TableName() string {
	return "seat_holds"
}
