package holds

import "time"

type HoldResponse struct {
	ID               string    `json:"id"`
	EventSeatingID   string    `json:"event_seating_id"`
	SeatUID          string    `json:"seat_uid"`
	SessionUID       string    `json:"session_uid"`
	ExpiresAt        time.Time `json:"expires_at"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}

func holdToResponse(hold *SeatHold, now time.Time) HoldResponse {
	return HoldResponse{
		ID:               hold.ID.String(),
		EventSeatingID:   hold.EventSeatingID.String(),
		SeatUID:          hold.SeatUID,
		SessionUID:       hold.SessionUID,
		ExpiresAt:        hold.ExpiresAt,
		RemainingSeconds: hold.RemainingSeconds(now),
		CreatedAt:        hold.CreatedAt,
	}
}
