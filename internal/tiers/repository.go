package tiers

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(tier *PriceTier) error
	GetByID(tenantID, id uuid.UUID) (*PriceTier, error)
	GetByCode(tenantID uuid.UUID, code string) (*PriceTier, error)
	GetByIDs(ids []uuid.UUID) ([]PriceTier, error)
	Update(tenantID, id uuid.UUID, updates map[string]interface{}) (*PriceTier, error)
	GetAll(tenantID uuid.UUID, query TierListQuery) ([]PriceTier, int64, error)
	GetActive(tenantID uuid.UUID) ([]PriceTier, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(tier *PriceTier) error {
	return r.db.Create(tier).Error
}

func (r *repository) GetByID(tenantID, id uuid.UUID) (*PriceTier, error) {
	var tier PriceTier
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *repository) GetByCode(tenantID uuid.UUID, code string) (*PriceTier, error) {
	var tier PriceTier
	err := r.db.Where("tenant_id = ? AND code = ?", tenantID, code).First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *repository) GetByIDs(ids []uuid.UUID) ([]PriceTier, error) {
	var tiers []PriceTier
	if len(ids) == 0 {
		return tiers, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&tiers).Error
	return tiers, err
}

func (r *repository) Update(tenantID, id uuid.UUID, updates map[string]interface{}) (*PriceTier, error) {
	var tier PriceTier

	if err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&tier).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&tier).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.Where("id = ?", id).First(&tier).Error; err != nil {
		return nil, err
	}

	return &tier, nil
}

func (r *repository) GetAll(tenantID uuid.UUID, query TierListQuery) ([]PriceTier, int64, error) {
	var tiers []PriceTier
	var totalCount int64

	db := r.db.Model(&PriceTier{}).Where("tenant_id = ?", tenantID)

	if query.IsActive != nil {
		db = db.Where("is_active = ?", *query.IsActive)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 50
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Order("sort_order ASC, created_at ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&tiers).Error

	return tiers, totalCount, err
}

func (r *repository) GetActive(tenantID uuid.UUID) ([]PriceTier, error) {
	var tiers []PriceTier
	err := r.db.Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("sort_order ASC").
		Find(&tiers).Error
	return tiers, err
}
