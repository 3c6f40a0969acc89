package seating

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateSnapshot(snapshot *EventSeating, seats []EventSeat) error
	GetSnapshotByID(tenantID, id uuid.UUID) (*EventSeating, error)
	GetSnapshotByEventID(tenantID, eventID uuid.UUID) (*EventSeating, error)
	GetSeat(eventSeatingID uuid.UUID, seatUID string) (*EventSeat, error)
	GetSeats(eventSeatingID uuid.UUID) ([]EventSeat, error)
	GetSeatsByLocation(eventSeatingID uuid.UUID, sectionName, rowLabel string) ([]EventSeat, error)

	// AttemptTransition is the sole seat mutation primitive: a conditional
	// UPDATE guarded by the expected status and version. On success the
	// version increments by exactly one; on miss the current row is re-read
	// and the failure classified as a ConflictError.
	AttemptTransition(eventSeatingID uuid.UUID, seatUID string, expectedStatus SeatStatus, expectedVersion int, newStatus SeatStatus) (*EventSeat, error)

	// WithTx returns a repository bound to the given transaction, so batch
	// callers can run several transitions atomically.
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateSnapshot(snapshot *EventSeating, seats []EventSeat) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(snapshot).Error; err != nil {
			return err
		}
		for i := range seats {
			seats[i].EventSeatingID = snapshot.ID
		}
		return tx.CreateInBatches(seats, 500).Error
	})
}

func (r *repository) GetSnapshotByID(tenantID, id uuid.UUID) (*EventSeating, error) {
	var snapshot EventSeating
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *repository) GetSnapshotByEventID(tenantID, eventID uuid.UUID) (*EventSeating, error) {
	var snapshot EventSeating
	err := r.db.Where("tenant_id = ? AND event_id = ?", tenantID, eventID).First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *repository) GetSeat(eventSeatingID uuid.UUID, seatUID string) (*EventSeat, error) {
	var seat EventSeat
	err := r.db.Where("event_seating_id = ? AND seat_uid = ?", eventSeatingID, seatUID).First(&seat).Error
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetSeats(eventSeatingID uuid.UUID) ([]EventSeat, error) {
	var seats []EventSeat
	err := r.db.Where("event_seating_id = ?", eventSeatingID).
		Order("section_name ASC, row_label ASC, seat_label ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsByLocation(eventSeatingID uuid.UUID, sectionName, rowLabel string) ([]EventSeat, error) {
	var seats []EventSeat

	db := r.db.Where("event_seating_id = ? AND section_name = ?", eventSeatingID, sectionName)
	if rowLabel != "" {
		db = db.Where("row_label = ?", rowLabel)
	}

	err := db.Order("row_label ASC, seat_label ASC").Find(&seats).Error
	return seats, err
}

func (r *repository) AttemptTransition(eventSeatingID uuid.UUID, seatUID string, expectedStatus SeatStatus, expectedVersion int, newStatus SeatStatus) (*EventSeat, error) {
	if !CanTransition(expectedStatus, newStatus) {
		return nil, &ConflictError{
			SeatUID:        seatUID,
			Reason:         ConflictInvalidTransition,
			CurrentStatus:  expectedStatus,
			CurrentVersion: expectedVersion,
		}
	}

	result := r.db.Model(&EventSeat{}).
		Where("event_seating_id = ? AND seat_uid = ? AND status = ? AND version = ?",
			eventSeatingID, seatUID, expectedStatus, expectedVersion).
		Updates(map[string]interface{}{
			"status":         newStatus,
			"version":        gorm.Expr("version + 1"),
			"last_change_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 1 {
		return r.GetSeat(eventSeatingID, seatUID)
	}

	// The guard did not match: re-read and classify. A permitted transition
	// from the actual current status means the caller only lost the version
	// race; anything else is an invalid transition.
	current, err := r.GetSeat(eventSeatingID, seatUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}

	reason := ConflictInvalidTransition
	if CanTransition(current.Status, newStatus) {
		reason = ConflictStaleVersion
	}

	return nil, &ConflictError{
		SeatUID:        seatUID,
		Reason:         reason,
		CurrentStatus:  current.Status,
		CurrentVersion: current.Version,
	}
}
