package holds

import (
	"time"

	"seatgrid/internal/seating"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Atomic runs fn inside one storage transaction. The repository handed
	// to fn (including its Seats view) is bound to that transaction, so a
	// mid-batch failure rolls back every transition made in the batch.
	Atomic(fn func(Repository) error) error

	// Seats is the seat repository sharing this repository's connection or
	// transaction; hold creation and seat transitions commit together.
	Seats() seating.Repository

	CreateHold(hold *SeatHold) error
	GetHold(eventSeatingID uuid.UUID, seatUID string) (*SeatHold, error)
	GetSessionHolds(eventSeatingID uuid.UUID, sessionUID string) ([]SeatHold, error)
	DeleteHold(eventSeatingID uuid.UUID, seatUID string) error
	GetExpired(now time.Time, limit int) ([]SeatHold, error)
}

type repository struct {
	db    *gorm.DB
	seats seating.Repository
}

func NewRepository(db *gorm.DB, seats seating.Repository) Repository {
	return &repository{db: db, seats: seats}
}

func (r *repository) Atomic(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx, seats: r.seats.WithTx(tx)})
	})
}

func (r *repository) Seats() seating.Repository {
	return r.seats
}

func (r *repository) CreateHold(hold *SeatHold) error {
	return r.db.Create(hold).Error
}

func (r *repository) GetHold(eventSeatingID uuid.UUID, seatUID string) (*SeatHold, error) {
	var hold SeatHold
	err := r.db.Where("event_seating_id = ? AND seat_uid = ?", eventSeatingID, seatUID).First(&hold).Error
	if err != nil {
		return nil, err
	}
	return &hold, nil
}

func (r *repository) GetSessionHolds(eventSeatingID uuid.UUID, sessionUID string) ([]SeatHold, error) {
	var holds []SeatHold
	err := r.db.Where("event_seating_id = ? AND session_uid = ?", eventSeatingID, sessionUID).
		Order("seat_uid ASC").
		Find(&holds).Error
	return holds, err
}

func (r *repository) DeleteHold(eventSeatingID uuid.UUID, seatUID string) error {
	return r.db.Where("event_seating_id = ? AND seat_uid = ?", eventSeatingID, seatUID).
		Delete(&SeatHold{}).Error
}

func (r *repository) GetExpired(now time.Time, limit int) ([]SeatHold, error) {
	var holds []SeatHold
	err := r.db.Where("expires_at <= ?", now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&holds).Error
	return holds, err
}
