package pricing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Rules
	CreateRule(rule *PricingRule) error
	GetRuleByID(tenantID, id uuid.UUID) (*PricingRule, error)
	GetRulesBySnapshot(tenantID, eventSeatingID uuid.UUID) ([]PricingRule, error)
	GetActiveRulesBySnapshot(tenantID, eventSeatingID uuid.UUID) ([]PricingRule, error)
	UpdateRule(tenantID, id uuid.UUID, updates map[string]interface{}) (*PricingRule, error)

	// Overrides are append-only. Superseding closes the old window and
	// inserts a new record inside one transaction.
	CreateOverride(override *PriceOverride) error
	SupersedeRuleOverrides(ruleID uuid.UUID, closeAt time.Time, replacements []*PriceOverride) error
	GetOverridesBySnapshot(eventSeatingID uuid.UUID) ([]PriceOverride, error)
	GetActiveOverrides(eventSeatingID uuid.UUID, seatUID, sectionRef, rowRef string, at time.Time) ([]PriceOverride, error)
	GetActiveOverridesBySnapshot(eventSeatingID uuid.UUID, at time.Time) ([]PriceOverride, error)

	// DistinctSectionRefs lists the section references present in a
	// snapshot's seats, used to expand event-scoped rules.
	DistinctSectionRefs(eventSeatingID uuid.UUID) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRule(rule *PricingRule) error {
	return r.db.Create(rule).Error
}

func (r *repository) GetRuleByID(tenantID, id uuid.UUID) (*PricingRule, error) {
	var rule PricingRule
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) GetRulesBySnapshot(tenantID, eventSeatingID uuid.UUID) ([]PricingRule, error) {
	var rules []PricingRule
	err := r.db.Where("tenant_id = ? AND event_seating_id = ?", tenantID, eventSeatingID).
		Order("created_at DESC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) GetActiveRulesBySnapshot(tenantID, eventSeatingID uuid.UUID) ([]PricingRule, error) {
	var rules []PricingRule
	err := r.db.Where("tenant_id = ? AND event_seating_id = ? AND active = ?", tenantID, eventSeatingID, true).
		Order("created_at ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) UpdateRule(tenantID, id uuid.UUID, updates map[string]interface{}) (*PricingRule, error) {
	var rule PricingRule

	if err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&rule).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&rule).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.Where("id = ?", id).First(&rule).Error; err != nil {
		return nil, err
	}

	return &rule, nil
}

func (r *repository) CreateOverride(override *PriceOverride) error {
	return r.db.Create(override).Error
}

func (r *repository) SupersedeRuleOverrides(ruleID uuid.UUID, closeAt time.Time, replacements []*PriceOverride) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Close the rule's still-open windows; the price rows themselves
		// are never rewritten.
		if err := tx.Model(&PriceOverride{}).
			Where("source_rule_id = ? AND (effective_to IS NULL OR effective_to > ?)", ruleID, closeAt).
			Update("effective_to", closeAt).Error; err != nil {
			return err
		}

		for _, replacement := range replacements {
			if err := tx.Create(replacement).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) GetOverridesBySnapshot(eventSeatingID uuid.UUID) ([]PriceOverride, error) {
	var overrides []PriceOverride
	err := r.db.Where("event_seating_id = ?", eventSeatingID).
		Order("effective_from DESC, created_at DESC").
		Find(&overrides).Error
	return overrides, err
}

func (r *repository) GetActiveOverrides(eventSeatingID uuid.UUID, seatUID, sectionRef, rowRef string, at time.Time) ([]PriceOverride, error) {
	var overrides []PriceOverride
	err := r.db.
		Where("event_seating_id = ?", eventSeatingID).
		Where("effective_from <= ?", at).
		Where("effective_to IS NULL OR effective_to > ?", at).
		Where("seat_uid = ? OR row_ref = ? OR section_ref = ?", seatUID, rowRef, sectionRef).
		Order("effective_from DESC, created_at DESC, id DESC").
		Find(&overrides).Error
	return overrides, err
}

func (r *repository) GetActiveOverridesBySnapshot(eventSeatingID uuid.UUID, at time.Time) ([]PriceOverride, error) {
	var overrides []PriceOverride
	err := r.db.
		Where("event_seating_id = ?", eventSeatingID).
		Where("effective_from <= ?", at).
		Where("effective_to IS NULL OR effective_to > ?", at).
		Order("effective_from DESC, created_at DESC, id DESC").
		Find(&overrides).Error
	return overrides, err
}

func (r *repository) DistinctSectionRefs(eventSeatingID uuid.UUID) ([]string, error) {
	var sections []string
	err := r.db.Table("event_seats").
		Distinct("section_name").
		Where("event_seating_id = ?", eventSeatingID).
		Order("section_name ASC").
		Pluck("section_name", &sections).Error
	return sections, err
}
