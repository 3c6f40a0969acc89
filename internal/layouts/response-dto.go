package layouts

import "time"

type LayoutResponse struct {
	ID          string            `json:"id"`
	TenantID    string            `json:"tenant_id"`
	Name        string            `json:"name"`
	VenueName   string            `json:"venue_name"`
	Status      Status            `json:"status"`
	ClonedFrom  *string           `json:"cloned_from,omitempty"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	SeatCount   int               `json:"seat_count"`
	Sections    []SectionResponse `json:"sections,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type SectionResponse struct {
	ID            string        `json:"id"`
	Label         string        `json:"label"`
	SortOrder     int           `json:"sort_order"`
	DefaultTierID *string       `json:"default_tier_id,omitempty"`
	Rows          []RowResponse `json:"rows,omitempty"`
}

type RowResponse struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	SortOrder int            `json:"sort_order"`
	Seats     []SeatResponse `json:"seats,omitempty"`
}

type SeatResponse struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	SeatUID     string  `json:"seat_uid"`
	SeatType    string  `json:"seat_type"`
	PriceTierID *string `json:"price_tier_id,omitempty"`
	PosX        int     `json:"pos_x"`
	PosY        int     `json:"pos_y"`
}

type PaginatedLayouts struct {
	Layouts    []LayoutResponse `json:"layouts"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}
