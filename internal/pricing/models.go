package pricing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// RuleScope is the granularity a pricing rule targets.
type RuleScope string

const (
	ScopeEvent   RuleScope = "event"
	ScopeSection RuleScope = "section"
	ScopeRow     RuleScope = "row"
)

// RuleParams is the strategy's opaque parameter bag, stored as JSONB.
type RuleParams map[string]interface{}

func (p RuleParams) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (p *RuleParams) Scan(value interface{}) error {
	if value == nil {
		*p = RuleParams{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for rule params")
	}

	return json.Unmarshal(data, p)
}

// PricingRule is a declarative, tenant-authored strategy. Rules never hold a
// price themselves; evaluation turns them into concrete overrides.
type PricingRule struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TenantID       uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	EventSeatingID uuid.UUID  `json:"event_seating_id" gorm:"type:uuid;not null;index"`
	Scope          RuleScope  `json:"scope" gorm:"not null;size:20"`
	ScopeRef       string     `json:"scope_ref" gorm:"size:120"`
	Strategy       string     `json:"strategy" gorm:"not null;size:50"`
	Params         RuleParams `json:"params" gorm:"type:jsonb;default:'{}'"`
	Active         bool       `json:"active" gorm:"default:true"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// PriceOverride is a concrete, time-windowed price replacement. Overrides are
// append-only: superseding one means inserting a new record and closing the
// old one's effective_to, never mutating the price in place. Exactly one of
// SeatUID, RowRef, SectionRef is set.
type PriceOverride struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventSeatingID uuid.UUID  `json:"event_seating_id" gorm:"type:uuid;not null;index:idx_override_seat;index:idx_override_window"`
	SeatUID        *string    `json:"seat_uid" gorm:"size:160;index:idx_override_seat"`
	SectionRef     *string    `json:"section_ref" gorm:"size:120"`
	RowRef         *string    `json:"row_ref" gorm:"size:120"`
	PriceCents     int64      `json:"price_cents" gorm:"not null"`
	SourceRuleID   *uuid.UUID `json:"source_rule_id" gorm:"type:uuid;index"`
	EffectiveFrom  time.Time  `json:"effective_from" gorm:"not null;index:idx_override_window"`
	EffectiveTo    *time.Time `json:"effective_to" gorm:"index:idx_override_window"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// ActiveAt reports whether the override's window covers the given instant.
// The window is half-open: effective_from <= at < effective_to.
func (o *PriceOverride) ActiveAt(at time.Time) bool {
	if at.Before(o.EffectiveFrom) {
		return false
	}
	if o.EffectiveTo != nil && !at.Before(*o.EffectiveTo) {
		return false
	}
	return true
}

// TableName specifies the table name for GORM
func (PricingRule) TableName() string {
	return "pricing_rules"
}

func (PriceOverride) TableName() string {
	return "price_overrides"
}
