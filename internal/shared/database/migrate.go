package database

import (
	"seatgrid/internal/holds"
	"seatgrid/internal/layouts"
	"seatgrid/internal/pricing"
	"seatgrid/internal/seating"
	"seatgrid/internal/tiers"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&tiers.PriceTier{},
		&layouts.SeatingLayout{},
		&layouts.LayoutSection{},
		&layouts.LayoutRow{},
		&layouts.LayoutSeat{},
		&seating.EventSeating{},
		&seating.EventSeat{},
		&holds.SeatHold{},
		&pricing.PricingRule{},
		&pricing.PriceOverride{},
	)
}
