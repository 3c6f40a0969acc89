package holds

type HoldSeatsRequest struct {
	SeatUIDs   []string `json:"seat_uids" binding:"required,min=1,max=10,dive,min=1,max=160"`
	TTLSeconds int      `json:"ttl_seconds" binding:"omitempty,gte=30,lte=3600"`
}
