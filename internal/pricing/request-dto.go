package pricing

import "time"

type CreateRuleRequest struct {
	EventSeatingID string     `json:"event_seating_id" binding:"required,uuid"`
	Scope          string     `json:"scope" binding:"required,oneof=event section row"`
	ScopeRef       string     `json:"scope_ref" binding:"omitempty,max=120"`
	Strategy       string     `json:"strategy" binding:"required,oneof=scheduled percent_discount early_bird"`
	Params         RuleParams `json:"params" binding:"required"`
}

type SetRuleActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type CreateOverrideRequest struct {
	EventSeatingID string     `json:"event_seating_id" binding:"required,uuid"`
	SeatUID        *string    `json:"seat_uid" binding:"omitempty,max=160"`
	RowRef         *string    `json:"row_ref" binding:"omitempty,max=120"`
	SectionRef     *string    `json:"section_ref" binding:"omitempty,max=120"`
	PriceCents     int64      `json:"price_cents" binding:"required,gt=0"`
	EffectiveFrom  time.Time  `json:"effective_from" binding:"required"`
	EffectiveTo    *time.Time `json:"effective_to"`
}

type EvaluateRulesRequest struct {
	At *time.Time `json:"at"`
}
