package seating

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"seatgrid/internal/layouts"
	"seatgrid/internal/pricing"
	"seatgrid/internal/shared/constants"
	"seatgrid/internal/stream"
	"seatgrid/internal/tiers"
	"seatgrid/pkg/cache"
	"seatgrid/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	SnapshotForEvent(ctx context.Context, tenantID uuid.UUID, req CreateSnapshotRequest) (*SnapshotResponse, error)
	GetSnapshot(tenantID, id uuid.UUID) (*SnapshotResponse, error)
	GetSnapshotByEvent(tenantID, eventID uuid.UUID) (*SnapshotResponse, error)

	GetSeatMap(ctx context.Context, tenantID, eventSeatingID uuid.UUID) (*SeatMapResponse, error)
	QuoteSeatPrice(ctx context.Context, tenantID, eventSeatingID uuid.UUID, seatUID string, at time.Time) (*PriceQuoteResponse, error)

	// Operator withholding. Every mutation goes through the CAS primitive;
	// batches report per-seat failures instead of aborting.
	BlockSeats(ctx context.Context, tenantID, eventSeatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error)
	UnblockSeats(ctx context.Context, tenantID, eventSeatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error)
	DisableSeats(ctx context.Context, tenantID, eventSeatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error)
	EnableSeats(ctx context.Context, tenantID, eventSeatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error)
	BlockSeatsByLocation(ctx context.Context, tenantID, eventSeatingID uuid.UUID, req BlockByLocationRequest) (*SeatActionResponse, error)

	// InvalidateSeatMap drops the cached seat map after a transition. The
	// hold manager calls this so buyers never see a stale status for long.
	InvalidateSeatMap(ctx context.Context, eventSeatingID uuid.UUID)
}

type service struct {
	repo       Repository
	layoutSvc  layouts.Service
	tierRepo   tiers.Repository
	pricingSvc pricing.Service
	cache      cache.Service
	producer   stream.Producer
	logger     *logger.Logger
	seatMapTTL time.Duration
}

func NewService(repo Repository, layoutSvc layouts.Service, tierRepo tiers.Repository, pricingSvc pricing.Service, cacheService cache.Service, producer stream.Producer, log *logger.Logger, seatMapTTL time.Duration) Service {
	if seatMapTTL <= 0 {
		seatMapTTL = constants.TTL_SEAT_MAP
	}
	return &service{
		repo:       repo,
		layoutSvc:  layoutSvc,
		tierRepo:   tierRepo,
		pricingSvc: pricingSvc,
		cache:      cacheService,
		producer:   producer,
		logger:     log,
		seatMapTTL: seatMapTTL,
	}
}

// SectionRef and RowRef build the override scope references for a seat.
// Overrides key on upper-cased labels, matching seat UID derivation.
func SectionRef(sectionName string) string {
	return strings.ToUpper(strings.TrimSpace(sectionName))
}

func RowRef(sectionName, rowLabel string) string {
	return SectionRef(sectionName) + "-" + strings.ToUpper(strings.TrimSpace(rowLabel))
}

func (s *service) SnapshotForEvent(ctx context.Context, tenantID uuid.UUID, req CreateSnapshotRequest) (*SnapshotResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}
	layoutID, err := uuid.Parse(req.LayoutID)
	if err != nil {
		return nil, fmt.Errorf("invalid layout ID: %w", err)
	}

	// Re-snapshotting is a deliberate separate operation, never implicit.
	existing, err := s.repo.GetSnapshotByEventID(tenantID, eventID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing snapshot: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadySnapshotted
	}

	layout, err := s.layoutSvc.GetPublishedLayout(tenantID, layoutID)
	if err != nil {
		if errors.Is(err, layouts.ErrLayoutNotPublished) {
			return nil, ErrLayoutNotPublished
		}
		return nil, err
	}

	sold := make(map[string]bool, len(req.SoldSeatUIDs))
	for _, seatUID := range req.SoldSeatUIDs {
		sold[strings.ToUpper(seatUID)] = false
	}

	now := time.Now().UTC()
	var seats []EventSeat

	for _, section := range layout.Sections {
		for _, row := range section.Rows {
			for _, templateSeat := range row.Seats {
				seat := EventSeat{
					SeatUID:      templateSeat.SeatUID,
					SectionName:  section.Label,
					RowLabel:     row.Label,
					SeatLabel:    templateSeat.Label,
					PriceTierID:  templateSeat.PriceTierID,
					Status:       StatusAvailable,
					Version:      1,
					LastChangeAt: now,
				}
				if seat.PriceTierID == nil {
					seat.PriceTierID = section.DefaultTierID
				}

				// Unusable template seats never go on sale; sold UIDs
				// restore tickets issued before the snapshot existed.
				if templateSeat.SeatType == layouts.SeatTypeUnusable {
					seat.Status = StatusDisabled
				} else if _, wasSold := sold[templateSeat.SeatUID]; wasSold {
					seat.Status = StatusSold
					sold[templateSeat.SeatUID] = true
				}

				seats = append(seats, seat)
			}
		}
	}

	var unknown []string
	for seatUID, matched := range sold {
		if !matched {
			unknown = append(unknown, seatUID)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSoldSeatUIDs, strings.Join(unknown, ", "))
	}

	snapshot := &EventSeating{
		TenantID:  tenantID,
		EventID:   eventID,
		LayoutID:  layoutID,
		Status:    "ACTIVE",
		SeatCount: len(seats),
	}

	if err := s.repo.CreateSnapshot(snapshot, seats); err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}

	response := snapshotToResponse(snapshot)
	return &response, nil
}

func (s *service) GetSnapshot(tenantID, id uuid.UUID) (*SnapshotResponse, error) {
	snapshot, err := s.repo.GetSnapshotByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	response := snapshotToResponse(snapshot)
	return &response, nil
}

func (s *service) GetSnapshotByEvent(tenantID, eventID uuid.UUID) (*SnapshotResponse, error) {
	snapshot, err := s.repo.GetSnapshotByEventID(tenantID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	response := snapshotToResponse(snapshot)
	return &response, nil
}

func (s *service) GetSeatMap(ctx context.Context, tenantID, eventSeatingID uuid.UUID) (*SeatMapResponse, error) {
	cacheKey := constants.BuildSeatMapKey(eventSeatingID.String())

	var cached SeatMapResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	if _, err := s.repo.GetSnapshotByID(tenantID, eventSeatingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	seats, err := s.repo.GetSeats(eventSeatingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}

	now := time.Now().UTC()
	tierPrices, err := s.tierPrices(seats)
	if err != nil {
		return nil, err
	}

	queries := make([]pricing.ResolveQuery, 0, len(seats))
	for i := range seats {
		queries = append(queries, s.resolveQuery(&seats[i], tierPrices, now))
	}

	prices, err := s.pricingSvc.ResolveMany(ctx, eventSeatingID, queries, now)
	if err != nil {
		return nil, err
	}

	entries := make([]SeatMapEntry, 0, len(seats))
	for i := range seats {
		seat := &seats[i]
		entry := SeatMapEntry{
			SeatUID:     seat.SeatUID,
			SectionName: seat.SectionName,
			RowLabel:    seat.RowLabel,
			SeatLabel:   seat.SeatLabel,
			Status:      seat.Status,
			Version:     seat.Version,
		}
		if price, ok := prices[seat.SeatUID]; ok {
			entry.PriceMinor = &price
		}
		entries = append(entries, entry)
	}

	seatMap := &SeatMapResponse{
		EventSeatingID: eventSeatingID.String(),
		Seats:          entries,
		GeneratedAt:    now,
	}

	_ = s.cache.Set(ctx, cacheKey, seatMap, s.seatMapTTL)

	return seatMap, nil
}

func (s *service) QuoteSeatPrice(ctx context.Context, tenantID, eventSeatingID uuid.UUID, seatUID string, at time.Time) (*PriceQuoteResponse, error) {
	if _, err := s.repo.GetSnapshotByID(tenantID, eventSeatingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	seat, err := s.repo.GetSeat(eventSeatingID, strings.ToUpper(seatUID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}

	tierPrices, err := s.tierPrices([]EventSeat{*seat})
	if err != nil {
		return nil, err
	}

	price, err := s.pricingSvc.Resolve(ctx, s.resolveQuery(seat, tierPrices, at))
	if err != nil {
		return nil, err
	}

	quote := &PriceQuoteResponse{
		EventSeatingID: eventSeatingID.String(),
		SeatUID:        seat.SeatUID,
		PriceMinor:     price,
		QuotedAt:       at,
	}
	if seat.PriceTierID != nil {
		if tier, ok := tierPrices[*seat.PriceTierID]; ok {
			quote.Currency = tier.Currency
		}
	}

	return quote, nil
}

// tierPrices loads the tiers referenced by the given seats, keyed by ID.
func (s *service) tierPrices(seats []EventSeat) (map[uuid.UUID]tiers.PriceTier, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for i := range seats {
		if seats[i].PriceTierID != nil && !seen[*seats[i].PriceTierID] {
			seen[*seats[i].PriceTierID] = true
			ids = append(ids, *seats[i].PriceTierID)
		}
	}

	loaded, err := s.tierRepo.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load price tiers: %w", err)
	}

	result := make(map[uuid.UUID]tiers.PriceTier, len(loaded))
	for _, tier := range loaded {
		result[tier.ID] = tier
	}
	return result, nil
}

func (s *service) resolveQuery(seat *EventSeat, tierPrices map[uuid.UUID]tiers.PriceTier, at time.Time) pricing.ResolveQuery {
	q := pricing.ResolveQuery{
		EventSeatingID: seat.EventSeatingID,
		SeatUID:        seat.SeatUID,
		SectionRef:     SectionRef(seat.SectionName),
		RowRef:         RowRef(seat.SectionName, seat.RowLabel),
		ManualOverride: seat.PriceCentsOverride,
		At:             at,
	}
	if seat.PriceTierID != nil {
		if tier, ok := tierPrices[*seat.PriceTierID]; ok {
			price := tier.PriceMinor
			q.TierPriceMinor = &price
		}
	}
	return q
}

func (s *service) BlockSeats(ctx context.Context, tenantID, eventSeatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error) {
	return s.applySeatAction(ctx, tenantID, eventSeatingID, seatUIDs, StatusBlocked, stream.SeatEventBlocked)
}

func (s *service) UnblockSeats(ctx context.Context, tenantID, eventSeatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error) {
	return s.applySeatAction(ctx, tenantID, eventSeatingID, seatUIDs, StatusAvailable, stream.SeatEventUnblocked)
}

func (s *service) DisableSeats(ctx context.Context, tenantID, eventSeatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error) {
	return s.applySeatAction(ctx, tenantID, eventSeatingID, seatUIDs, StatusDisabled, stream.SeatEventDisabled)
}

func (s *service) EnableSeats(ctx context.Context, tenantID, eventSeatingID uuid.UUID, seatUIDs []string) (*SeatActionResponse, error) {
	return s.applySeatAction(ctx, tenantID, eventSeatingID, seatUIDs, StatusAvailable, stream.SeatEventEnabled)
}

func (s *service) BlockSeatsByLocation(ctx context.Context, tenantID, eventSeatingID uuid.UUID, req BlockByLocationRequest) (*SeatActionResponse, error) {
	if _, err := s.repo.GetSnapshotByID(tenantID, eventSeatingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	seats, err := s.repo.GetSeatsByLocation(eventSeatingID, strings.TrimSpace(req.SectionName), strings.TrimSpace(req.RowLabel))
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}

	seatUIDs := make([]string, 0, len(seats))
	for i := range seats {
		seatUIDs = append(seatUIDs, seats[i].SeatUID)
	}

	return s.applySeatAction(ctx, tenantID, eventSeatingID, seatUIDs, StatusBlocked, stream.SeatEventBlocked)
}

// applySeatAction attempts one CAS per seat toward the target status,
// collecting failures instead of aborting. Seats already in the target
// status count as updated (the operation is idempotent from the operator's
// point of view).
func (s *service) applySeatAction(ctx context.Context, tenantID, eventSeatingID uuid.UUID, seatUIDs []string, target SeatStatus, eventType stream.SeatEventType) (*SeatActionResponse, error) {
	if _, err := s.repo.GetSnapshotByID(tenantID, eventSeatingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	result := &SeatActionResponse{}
	var events []*stream.SeatEvent

	for _, raw := range seatUIDs {
		seatUID := strings.ToUpper(strings.TrimSpace(raw))

		seat, err := s.repo.GetSeat(eventSeatingID, seatUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Failed = append(result.Failed, SeatFailure{SeatUID: seatUID, Reason: "seat not found"})
				continue
			}
			return nil, fmt.Errorf("failed to read seat %s: %w", seatUID, err)
		}

		if seat.Status == target {
			result.Updated = append(result.Updated, seatUID)
			continue
		}

		updated, err := s.repo.AttemptTransition(eventSeatingID, seatUID, seat.Status, seat.Version, target)
		if err != nil {
			var conflict *ConflictError
			if errors.As(err, &conflict) {
				s.logger.LogTransitionConflict(ctx, eventSeatingID.String(), seatUID, string(conflict.Reason))
				result.Failed = append(result.Failed, SeatFailure{SeatUID: seatUID, Reason: conflict.Error()})
				continue
			}
			return nil, err
		}

		result.Updated = append(result.Updated, seatUID)
		events = append(events, &stream.SeatEvent{
			Type:           eventType,
			EventSeatingID: eventSeatingID,
			SeatUID:        seatUID,
			Version:        updated.Version,
		})
	}

	if len(events) > 0 {
		if err := s.producer.PublishSeatEvents(ctx, events); err != nil {
			s.logger.ErrorWithContext(ctx, "failed to publish seat events", err, map[string]interface{}{
				"event_seating_id": eventSeatingID.String(),
			})
		}
		s.InvalidateSeatMap(ctx, eventSeatingID)
	}

	return result, nil
}

func (s *service) InvalidateSeatMap(ctx context.Context, eventSeatingID uuid.UUID) {
	_ = s.cache.Delete(ctx, constants.BuildSeatMapKey(eventSeatingID.String()))
}
