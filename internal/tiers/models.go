package tiers

import (
	"time"

	"github.com/google/uuid"
)

// PriceTier is the base price bucket seats point at. Prices are stored in
// minor units (cents) to avoid floating point drift.
type PriceTier struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TenantID   uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_tenant_tier_code"`
	Name       string    `json:"name" gorm:"not null;size:100"`
	Code       string    `json:"code" gorm:"not null;size:100;uniqueIndex:idx_tenant_tier_code"`
	Currency   string    `json:"currency" gorm:"not null;size:3"`
	PriceMinor int64     `json:"price_minor" gorm:"not null"`
	SortOrder  int       `json:"sort_order" gorm:"default:0"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (t *PriceTier) ToResponse() TierResponse {
	return TierResponse{
		ID:         t.ID.String(),
		TenantID:   t.TenantID.String(),
		Name:       t.Name,
		Code:       t.Code,
		Currency:   t.Currency,
		PriceMinor: t.PriceMinor,
		SortOrder:  t.SortOrder,
		IsActive:   t.IsActive,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (PriceTier) TableName() string {
	return "price_tiers"
}
