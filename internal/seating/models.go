package seating

import (
	"time"

	"github.com/google/uuid"
)

// EventSeating is the event-bound snapshot of a layout. Geometry is copied at
// creation time, so later template edits never reach events already live.
type EventSeating struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TenantID  uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null;uniqueIndex"`
	LayoutID  uuid.UUID `json:"layout_id" gorm:"type:uuid;not null;index"`
	Status    string    `json:"status" gorm:"not null;default:'ACTIVE';size:20"`
	SeatCount int       `json:"seat_count" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// EventSeat is the sellable unit: one row per physical seat per event. The
// version column is the only concurrency token; every status or price
// mutation goes through the conditional update in the repository.
type EventSeat struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventSeatingID     uuid.UUID  `json:"event_seating_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_seating_seat_uid"`
	SeatUID            string     `json:"seat_uid" gorm:"not null;size:160;uniqueIndex:idx_seating_seat_uid"`
	SectionName        string     `json:"section_name" gorm:"not null;size:50;index"`
	RowLabel           string     `json:"row_label" gorm:"not null;size:50"`
	SeatLabel          string     `json:"seat_label" gorm:"not null;size:50"`
	PriceTierID        *uuid.UUID `json:"price_tier_id" gorm:"type:uuid"`
	PriceCentsOverride *int64     `json:"price_cents_override"`
	Status             SeatStatus `json:"status" gorm:"not null;default:'available';size:20;index"`
	Version            int        `json:"version" gorm:"not null;default:1"`
	LastChangeAt       time.Time  `json:"last_change_at" gorm:"not null"`
	CreatedAt          time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (EventSeating) TableName() string {
	return "event_seatings"
}

func (EventSeat) TableName() string {
	return "event_seats"
}
