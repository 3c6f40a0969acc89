package seating

import "time"

type SnapshotResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	EventID   string    `json:"event_id"`
	LayoutID  string    `json:"layout_id"`
	Status    string    `json:"status"`
	SeatCount int       `json:"seat_count"`
	CreatedAt time.Time `json:"created_at"`
}

type SeatMapEntry struct {
	SeatUID     string     `json:"seat_uid"`
	SectionName string     `json:"section_name"`
	RowLabel    string     `json:"row_label"`
	SeatLabel   string     `json:"seat_label"`
	Status      SeatStatus `json:"status"`
	Version     int        `json:"version"`
	PriceMinor  *int64     `json:"price_minor,omitempty"`
}

type SeatMapResponse struct {
	EventSeatingID string         `json:"event_seating_id"`
	Seats          []SeatMapEntry `json:"seats"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// SeatFailure reports why one seat in a batch operation was skipped.
type SeatFailure struct {
	SeatUID string `json:"seat_uid"`
	Reason  string `json:"reason"`
}

type SeatActionResponse struct {
	Updated []string      `json:"updated"`
	Failed  []SeatFailure `json:"failed,omitempty"`
}

type PriceQuoteResponse struct {
	EventSeatingID string    `json:"event_seating_id"`
	SeatUID        string    `json:"seat_uid"`
	PriceMinor     int64     `json:"price_minor"`
	Currency       string    `json:"currency,omitempty"`
	QuotedAt       time.Time `json:"quoted_at"`
}

func snapshotToResponse(snapshot *EventSeating) SnapshotResponse {
	return SnapshotResponse{
		ID:        snapshot.ID.String(),
		TenantID:  snapshot.TenantID.String(),
		EventID:   snapshot.EventID.String(),
		LayoutID:  snapshot.LayoutID.String(),
		Status:    snapshot.Status,
		SeatCount: snapshot.SeatCount,
		CreatedAt: snapshot.CreatedAt,
	}
}
