package pricing

import "time"

type RuleResponse struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	EventSeatingID string     `json:"event_seating_id"`
	Scope          string     `json:"scope"`
	ScopeRef       string     `json:"scope_ref,omitempty"`
	Strategy       string     `json:"strategy"`
	Params         RuleParams `json:"params"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type OverrideResponse struct {
	ID             string     `json:"id"`
	EventSeatingID string     `json:"event_seating_id"`
	SeatUID        *string    `json:"seat_uid,omitempty"`
	RowRef         *string    `json:"row_ref,omitempty"`
	SectionRef     *string    `json:"section_ref,omitempty"`
	PriceCents     int64      `json:"price_cents"`
	SourceRuleID   *string    `json:"source_rule_id,omitempty"`
	EffectiveFrom  time.Time  `json:"effective_from"`
	EffectiveTo    *time.Time `json:"effective_to,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type EvaluationResponse struct {
	EventSeatingID   string    `json:"event_seating_id"`
	OverridesWritten int       `json:"overrides_written"`
	EvaluatedAt      time.Time `json:"evaluated_at"`
}

func ruleToResponse(rule *PricingRule) RuleResponse {
	return RuleResponse{
		ID:             rule.ID.String(),
		TenantID:       rule.TenantID.String(),
		EventSeatingID: rule.EventSeatingID.String(),
		Scope:          string(rule.Scope),
		ScopeRef:       rule.ScopeRef,
		Strategy:       rule.Strategy,
		Params:         rule.Params,
		Active:         rule.Active,
		CreatedAt:      rule.CreatedAt,
		UpdatedAt:      rule.UpdatedAt,
	}
}

func overrideToResponse(override *PriceOverride) OverrideResponse {
	response := OverrideResponse{
		ID:             override.ID.String(),
		EventSeatingID: override.EventSeatingID.String(),
		SeatUID:        override.SeatUID,
		RowRef:         override.RowRef,
		SectionRef:     override.SectionRef,
		PriceCents:     override.PriceCents,
		EffectiveFrom:  override.EffectiveFrom,
		EffectiveTo:    override.EffectiveTo,
		CreatedAt:      override.CreatedAt,
	}
	if override.SourceRuleID != nil {
		sourceRuleID := override.SourceRuleID.String()
		response.SourceRuleID = &sourceRuleID
	}
	return response
}
