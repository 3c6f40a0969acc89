package seating

type CreateSnapshotRequest struct {
	EventID      string   `json:"event_id" binding:"required,uuid"`
	LayoutID     string   `json:"layout_id" binding:"required,uuid"`
	SoldSeatUIDs []string `json:"sold_seat_uids" binding:"omitempty,dive,min=1,max=160"`
}

type SeatActionRequest struct {
	SeatUIDs []string `json:"seat_uids" binding:"required,min=1,max=100,dive,min=1,max=160"`
}

type BlockByLocationRequest struct {
	SectionName string `json:"section_name" binding:"required,min=1,max=50"`
	RowLabel    string `json:"row_label" binding:"omitempty,max=50"`
}
