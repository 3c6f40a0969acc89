package layouts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(layout *SeatingLayout) error
	GetByID(tenantID, id uuid.UUID) (*SeatingLayout, error)
	GetByIDWithSeats(tenantID, id uuid.UUID) (*SeatingLayout, error)
	Update(tenantID, id uuid.UUID, updates map[string]interface{}) (*SeatingLayout, error)
	GetAll(tenantID uuid.UUID, query LayoutListQuery) ([]SeatingLayout, int64, error)
	CountSeats(layoutID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create persists the full layout tree in one transaction. GORM cascades the
// nested sections, rows and seats through the association fields.
func (r *repository) Create(layout *SeatingLayout) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(layout).Error
	})
}

func (r *repository) GetByID(tenantID, id uuid.UUID) (*SeatingLayout, error) {
	var layout SeatingLayout
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&layout).Error
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

func (r *repository) GetByIDWithSeats(tenantID, id uuid.UUID) (*SeatingLayout, error) {
	var layout SeatingLayout
	err := r.db.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("layout_sections.sort_order ASC, layout_sections.label ASC")
		}).
		Preload("Sections.Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("layout_rows.sort_order ASC, layout_rows.label ASC")
		}).
		Preload("Sections.Rows.Seats", func(db *gorm.DB) *gorm.DB {
			return db.Order("layout_seats.label ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&layout).Error
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

func (r *repository) Update(tenantID, id uuid.UUID, updates map[string]interface{}) (*SeatingLayout, error) {
	var layout SeatingLayout

	if err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&layout).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&layout).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.Where("id = ?", id).First(&layout).Error; err != nil {
		return nil, err
	}

	return &layout, nil
}

func (r *repository) GetAll(tenantID uuid.UUID, query LayoutListQuery) ([]SeatingLayout, int64, error) {
	var layouts []SeatingLayout
	var totalCount int64

	db := r.db.Model(&SeatingLayout{}).Where("tenant_id = ?", tenantID)

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 20
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&layouts).Error

	return layouts, totalCount, err
}

func (r *repository) CountSeats(layoutID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&LayoutSeat{}).
		Joins("JOIN layout_rows ON layout_seats.row_id = layout_rows.id").
		Joins("JOIN layout_sections ON layout_rows.section_id = layout_sections.id").
		Where("layout_sections.layout_id = ?", layoutID).
		Count(&count).Error
	return count, err
}
