package holds

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"seatgrid/internal/seating"
	"seatgrid/internal/shared/config"
	"seatgrid/internal/stream"
	"seatgrid/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	// HoldSeats grants the session an exclusive, time-bounded claim on the
	// whole batch or nothing at all.
	HoldSeats(ctx context.Context, eventSeatingID uuid.UUID, seatUIDs []string, sessionUID string, ttl time.Duration) ([]HoldResponse, error)

	// ReleaseHold returns a held seat to available. Idempotent: releasing a
	// seat with no active hold is a no-op success.
	ReleaseHold(ctx context.Context, eventSeatingID uuid.UUID, seatUID, sessionUID string) error

	// CommitHold converts a hold to a sale. Called by the order workflow on
	// payment success.
	CommitHold(ctx context.Context, eventSeatingID uuid.UUID, seatUID, sessionUID string) error

	// SweepExpired releases every hold whose TTL has lapsed, returning the
	// number of seats freed. Safe to run concurrently with itself and with
	// buyer actions.
	SweepExpired(ctx context.Context, now time.Time) (int, error)

	GetSessionHolds(eventSeatingID uuid.UUID, sessionUID string) ([]HoldResponse, error)
}

type service struct {
	repo       Repository
	seatingSvc seating.Service
	producer   stream.Producer
	logger     *logger.Logger
	config     config.HoldConfig
}

func NewService(repo Repository, seatingSvc seating.Service, producer stream.Producer, log *logger.Logger, cfg config.HoldConfig) Service {
	return &service{
		repo:       repo,
		seatingSvc: seatingSvc,
		producer:   producer,
		logger:     log,
		config:     cfg,
	}
}

func (s *service) HoldSeats(ctx context.Context, eventSeatingID uuid.UUID, seatUIDs []string, sessionUID string, ttl time.Duration) ([]HoldResponse, error) {
	normalized := normalizeSeatUIDs(seatUIDs)
	if len(normalized) == 0 {
		return nil, ErrNoSeats
	}
	if len(normalized) > s.config.MaxBatchSize {
		return nil, fmt.Errorf("%w: max %d", ErrBatchTooLarge, s.config.MaxBatchSize)
	}

	if ttl <= 0 {
		ttl = s.config.DefaultTTL
	}

	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	var held []SeatHold
	var events []*stream.SeatEvent

	err := s.repo.Atomic(func(tx Repository) error {
		var unavailable []string

		for _, seatUID := range normalized {
			seat, err := tx.Seats().GetSeat(eventSeatingID, seatUID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					unavailable = append(unavailable, seatUID)
					continue
				}
				return fmt.Errorf("failed to read seat %s: %w", seatUID, err)
			}

			updated, err := tx.Seats().AttemptTransition(eventSeatingID, seatUID, seat.Status, seat.Version, seating.StatusHeld)
			if err != nil {
				if seating.IsConflict(err) {
					s.logger.LogTransitionConflict(ctx, eventSeatingID.String(), seatUID, "hold contention")
					unavailable = append(unavailable, seatUID)
					continue
				}
				return err
			}

			hold := SeatHold{
				EventSeatingID: eventSeatingID,
				SeatUID:        seatUID,
				SessionUID:     sessionUID,
				ExpiresAt:      expiresAt,
			}
			if err := tx.CreateHold(&hold); err != nil {
				return fmt.Errorf("failed to create hold for %s: %w", seatUID, err)
			}

			held = append(held, hold)
			events = append(events, &stream.SeatEvent{
				Type:           stream.SeatEventHeld,
				EventSeatingID: eventSeatingID,
				SeatUID:        seatUID,
				SessionUID:     sessionUID,
				Version:        updated.Version,
			})
		}

		if len(unavailable) > 0 {
			// Returning an error aborts the transaction, reverting every
			// transition this batch already made: all-or-nothing.
			return &SeatsUnavailableError{SeatUIDs: unavailable}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, eventSeatingID, events)
	s.logger.LogHoldGranted(ctx, eventSeatingID.String(), sessionUID, len(held), expiresAt)

	responses := make([]HoldResponse, 0, len(held))
	for i := range held {
		responses = append(responses, holdToResponse(&held[i], now))
	}
	return responses, nil
}

func (s *service) ReleaseHold(ctx context.Context, eventSeatingID uuid.UUID, seatUID, sessionUID string) error {
	seatUID = strings.ToUpper(strings.TrimSpace(seatUID))

	var event *stream.SeatEvent

	err := s.repo.Atomic(func(tx Repository) error {
		hold, err := tx.GetHold(eventSeatingID, seatUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Already released, committed or swept.
				return nil
			}
			return fmt.Errorf("failed to read hold: %w", err)
		}

		if hold.SessionUID != sessionUID {
			s.logger.LogOwnershipViolation(ctx, eventSeatingID.String(), seatUID, sessionUID)
			return ErrNotOwner
		}

		updated, err := s.releaseSeat(tx, hold)
		if err != nil {
			return err
		}

		if updated != nil {
			event = &stream.SeatEvent{
				Type:           stream.SeatEventReleased,
				EventSeatingID: eventSeatingID,
				SeatUID:        seatUID,
				SessionUID:     sessionUID,
				Version:        updated.Version,
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if event != nil {
		s.afterMutation(ctx, eventSeatingID, []*stream.SeatEvent{event})
	}
	return nil
}

// releaseSeat deletes the hold row and moves the seat back to available.
// A CAS conflict here means another path already moved the seat; the hold
// row is gone either way, so that is treated as handled.
func (s *service) releaseSeat(tx Repository, hold *SeatHold) (*seating.EventSeat, error) {
	if err := tx.DeleteHold(hold.EventSeatingID, hold.SeatUID); err != nil {
		return nil, fmt.Errorf("failed to delete hold: %w", err)
	}

	seat, err := tx.Seats().GetSeat(hold.EventSeatingID, hold.SeatUID)
	if err != nil {
		return nil, fmt.Errorf("failed to read seat: %w", err)
	}

	if seat.Status != seating.StatusHeld {
		return nil, nil
	}

	updated, err := tx.Seats().AttemptTransition(hold.EventSeatingID, hold.SeatUID, seating.StatusHeld, seat.Version, seating.StatusAvailable)
	if err != nil {
		if seating.IsConflict(err) {
			return nil, nil
		}
		return nil, err
	}
	return updated, nil
}

func (s *service) CommitHold(ctx context.Context, eventSeatingID uuid.UUID, seatUID, sessionUID string) error {
	seatUID = strings.ToUpper(strings.TrimSpace(seatUID))

	var event *stream.SeatEvent

	err := s.repo.Atomic(func(tx Repository) error {
		hold, err := tx.GetHold(eventSeatingID, seatUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHoldNotFound
			}
			return fmt.Errorf("failed to read hold: %w", err)
		}

		if hold.SessionUID != sessionUID {
			s.logger.LogOwnershipViolation(ctx, eventSeatingID.String(), seatUID, sessionUID)
			return ErrNotOwner
		}

		seat, err := tx.Seats().GetSeat(eventSeatingID, seatUID)
		if err != nil {
			return fmt.Errorf("failed to read seat: %w", err)
		}

		updated, err := tx.Seats().AttemptTransition(eventSeatingID, seatUID, seating.StatusHeld, seat.Version, seating.StatusSold)
		if err != nil {
			return err
		}

		if err := tx.DeleteHold(eventSeatingID, seatUID); err != nil {
			return fmt.Errorf("failed to delete hold: %w", err)
		}

		event = &stream.SeatEvent{
			Type:           stream.SeatEventCommitted,
			EventSeatingID: eventSeatingID,
			SeatUID:        seatUID,
			SessionUID:     sessionUID,
			Version:        updated.Version,
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterMutation(ctx, eventSeatingID, []*stream.SeatEvent{event})
	s.logger.LogHoldCommitted(ctx, eventSeatingID.String(), seatUID, sessionUID)
	return nil
}

func (s *service) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.repo.GetExpired(now, s.config.SweepBatch)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired holds: %w", err)
	}

	released := 0
	touched := make(map[uuid.UUID]bool)
	var events []*stream.SeatEvent

	for i := range expired {
		hold := expired[i]

		err := s.repo.Atomic(func(tx Repository) error {
			// Re-read inside the transaction: another sweep or a release
			// may have handled this hold already.
			current, err := tx.GetHold(hold.EventSeatingID, hold.SeatUID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}
			if current.ExpiresAt.After(now) {
				return nil
			}

			updated, err := s.releaseSeat(tx, current)
			if err != nil {
				return err
			}

			released++
			touched[hold.EventSeatingID] = true
			if updated != nil {
				events = append(events, &stream.SeatEvent{
					Type:           stream.SeatEventExpired,
					EventSeatingID: hold.EventSeatingID,
					SeatUID:        hold.SeatUID,
					SessionUID:     hold.SessionUID,
					Version:        updated.Version,
				})
			}
			return nil
		})
		if err != nil {
			// One bad hold must not abort the rest of the sweep batch.
			s.logger.ErrorWithContext(ctx, "failed to sweep expired hold", err, map[string]interface{}{
				"event_seating_id": hold.EventSeatingID.String(),
				"seat_uid":         hold.SeatUID,
			})
		}
	}

	if len(events) > 0 {
		if err := s.producer.PublishSeatEvents(ctx, events); err != nil {
			s.logger.ErrorWithContext(ctx, "failed to publish seat events", err, nil)
		}
	}
	for eventSeatingID := range touched {
		s.seatingSvc.InvalidateSeatMap(ctx, eventSeatingID)
	}

	if released > 0 {
		s.logger.LogHoldsExpired(ctx, released)
	}
	return released, nil
}

func (s *service) GetSessionHolds(eventSeatingID uuid.UUID, sessionUID string) ([]HoldResponse, error) {
	holds, err := s.repo.GetSessionHolds(eventSeatingID, sessionUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holds: %w", err)
	}

	now := time.Now().UTC()
	responses := make([]HoldResponse, 0, len(holds))
	for i := range holds {
		responses = append(responses, holdToResponse(&holds[i], now))
	}
	return responses, nil
}

func (s *service) afterMutation(ctx context.Context, eventSeatingID uuid.UUID, events []*stream.SeatEvent) {
	if len(events) > 0 {
		if err := s.producer.PublishSeatEvents(ctx, events); err != nil {
			s.logger.ErrorWithContext(ctx, "failed to publish seat events", err, map[string]interface{}{
				"event_seating_id": eventSeatingID.String(),
			})
		}
	}
	s.seatingSvc.InvalidateSeatMap(ctx, eventSeatingID)
}

// normalizeSeatUIDs upper-cases, dedupes and sorts the batch. The stable
// lexicographic order keeps row-lock acquisition consistent across
// concurrent batches, avoiding deadlocks.
func normalizeSeatUIDs(seatUIDs []string) []string {
	seen := make(map[string]bool, len(seatUIDs))
	normalized := make([]string, 0, len(seatUIDs))

	for _, raw := range seatUIDs {
		seatUID := strings.ToUpper(strings.TrimSpace(raw))
		if seatUID == "" || seen[seatUID] {
			continue
		}
		seen[seatUID] = true
		normalized = append(normalized, seatUID)
	}

	sort.Strings(normalized)
	return normalized
}
