package layouts

import (
	"time"

	"github.com/google/uuid"
)

// SeatType classifies template seats. Unusable seats become disabled in every
// snapshot materialized from the layout.
type SeatType string

const (
	SeatTypeStandard   SeatType = "standard"
	SeatTypeAccessible SeatType = "accessible"
	SeatTypeObstructed SeatType = "obstructed"
	SeatTypeUnusable   SeatType = "unusable"
)

// SeatingLayout is the venue seat template. Layouts are edited while DRAFT and
// frozen once PUBLISHED; snapshots may only be taken from published layouts.
type SeatingLayout struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TenantID    uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Name        string     `json:"name" gorm:"not null;size:200"`
	VenueName   string     `json:"venue_name" gorm:"size:200"`
	Status      Status     `json:"status" gorm:"not null;default:'DRAFT';size:20"`
	ClonedFrom  *uuid.UUID `json:"cloned_from" gorm:"type:uuid"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Sections []LayoutSection `json:"sections,omitempty" gorm:"foreignKey:LayoutID;constraint:OnDelete:CASCADE"`
}

type LayoutSection struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	LayoutID      uuid.UUID  `json:"layout_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_layout_section_label"`
	Label         string     `json:"label" gorm:"not null;size:50;uniqueIndex:idx_layout_section_label"`
	SortOrder     int        `json:"sort_order" gorm:"default:0"`
	DefaultTierID *uuid.UUID `json:"default_tier_id" gorm:"type:uuid"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`

	Rows []LayoutRow `json:"rows,omitempty" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

type LayoutRow struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SectionID uuid.UUID `json:"section_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_section_row_label"`
	Label     string    `json:"label" gorm:"not null;size:50;uniqueIndex:idx_section_row_label"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Seats []LayoutSeat `json:"seats,omitempty" gorm:"foreignKey:RowID;constraint:OnDelete:CASCADE"`
}

type LayoutSeat struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	RowID       uuid.UUID  `json:"row_id" gorm:"type:uuid;not null;index"`
	Label       string     `json:"label" gorm:"not null;size:50"`
	SeatUID     string     `json:"seat_uid" gorm:"not null;size:160;index"`
	SeatType    SeatType   `json:"seat_type" gorm:"not null;default:'standard';size:20"`
	PriceTierID *uuid.UUID `json:"price_tier_id" gorm:"type:uuid"`
	PosX        int        `json:"pos_x" gorm:"default:0"`
	PosY        int        `json:"pos_y" gorm:"default:0"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (SeatingLayout) TableName() string {
	return "seating_layouts"
}

func (LayoutSection) TableName() string {
	return "layout_sections"
}

func (LayoutRow) TableName() string {
	return "layout_rows"
}

func (LayoutSeat) TableName() string {
	return "layout_seats"
}
