package seating

import (
	"context"
	"errors"
	"testing"
	"time"

	"seatgrid/internal/layouts"
	"seatgrid/internal/pricing"
	"seatgrid/internal/stream"
	"seatgrid/internal/tiers"
	"seatgrid/pkg/cache"
	"seatgrid/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memRepo stores one tenant's snapshots and seats in memory with the same CAS
// semantics as the real repository.
type memRepo struct {
	snapshots map[uuid.UUID]*EventSeating
	seats     map[uuid.UUID]map[string]EventSeat
}

func newMemRepo() *memRepo {
	return &memRepo{
		snapshots: make(map[uuid.UUID]*EventSeating),
		seats:     make(map[uuid.UUID]map[string]EventSeat),
	}
}

func (r *memRepo) CreateSnapshot(snapshot *EventSeating, seats []EventSeat) error {
	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	snapshot.CreatedAt = time.Now().UTC()
	r.snapshots[snapshot.ID] = snapshot

	byUID := make(map[string]EventSeat, len(seats))
	for i := range seats {
		seats[i].EventSeatingID = snapshot.ID
		byUID[seats[i].SeatUID] = seats[i]
	}
	r.seats[snapshot.ID] = byUID
	return nil
}

func (r *memRepo) GetSnapshotByID(tenantID, id uuid.UUID) (*EventSeating, error) {
	snapshot, ok := r.snapshots[id]
	if !ok || snapshot.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return snapshot, nil
}

func (r *memRepo) GetSnapshotByEventID(tenantID, eventID uuid.UUID) (*EventSeating, error) {
	for _, snapshot := range r.snapshots {
		if snapshot.TenantID == tenantID && snapshot.EventID == eventID {
			return snapshot, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRepo) GetSeat(eventSeatingID uuid.UUID, seatUID string) (*EventSeat, error) {
	seat, ok := r.seats[eventSeatingID][seatUID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &seat, nil
}

func (r *memRepo) GetSeats(eventSeatingID uuid.UUID) ([]EventSeat, error) {
	var seats []EventSeat
	for _, seat := range r.seats[eventSeatingID] {
		seats = append(seats, seat)
	}
	return seats, nil
}

func (r *memRepo) GetSeatsByLocation(eventSeatingID uuid.UUID, sectionName, rowLabel string) ([]EventSeat, error) {
	var seats []EventSeat
	for _, seat := range r.seats[eventSeatingID] {
		if seat.SectionName != sectionName {
			continue
		}
		if rowLabel != "" && seat.RowLabel != rowLabel {
			continue
		}
		seats = append(seats, seat)
	}
	return seats, nil
}

func (r *memRepo) AttemptTransition(eventSeatingID uuid.UUID, seatUID string, expectedStatus SeatStatus, expectedVersion int, newStatus SeatStatus) (*EventSeat, error) {
	if !CanTransition(expectedStatus, newStatus) {
		return nil, &ConflictError{
			SeatUID:        seatUID,
			Reason:         ConflictInvalidTransition,
			CurrentStatus:  expectedStatus,
			CurrentVersion: expectedVersion,
		}
	}

	current, ok := r.seats[eventSeatingID][seatUID]
	if !ok {
		return nil, ErrSeatNotFound
	}

	if current.Status == expectedStatus && current.Version == expectedVersion {
		current.Status = newStatus
		current.Version++
		current.LastChangeAt = time.Now().UTC()
		r.seats[eventSeatingID][seatUID] = current
		return &current, nil
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

func (r *memRepo) WithTx(tx *gorm.DB) Repository { return r }

// fakeLayouts serves one published layout; everything else is unreachable
// from the seating service.
type fakeLayouts struct {
	layouts.Service
	layout *layouts.SeatingLayout
}

func (f *fakeLayouts) GetPublishedLayout(tenantID, id uuid.UUID) (*layouts.SeatingLayout, error) {
	if f.layout == nil || f.layout.ID != id {
		return nil, layouts.ErrLayoutNotFound
	}
	if f.layout.Status != layouts.StatusPublished {
		return nil, layouts.ErrLayoutNotPublished
	}
	return f.layout, nil
}

type fakeTierRepo struct {
	tiers.Repository
	tiers map[uuid.UUID]tiers.PriceTier
}

func (f *fakeTierRepo) GetByIDs(ids []uuid.UUID) ([]tiers.PriceTier, error) {
	var result []tiers.PriceTier
	for _, id := range ids {
		if tier, ok := f.tiers[id]; ok {
			result = append(result, tier)
		}
	}
	return result, nil
}

// fakePricing resolves straight from the flattened query, skipping override
// storage: tier price unless a manual override is set.
type fakePricing struct {
	pricing.Service
}

func (fakePricing) Resolve(ctx context.Context, q pricing.ResolveQuery) (int64, error) {
	if q.ManualOverride != nil {
		return *q.ManualOverride, nil
	}
	if q.TierPriceMinor != nil {
		return *q.TierPriceMinor, nil
	}
	return 0, pricing.ErrUnresolvable
}

func (f fakePricing) ResolveMany(ctx context.Context, eventSeatingID uuid.UUID, queries []pricing.ResolveQuery, at time.Time) (map[string]int64, error) {
	prices := make(map[string]int64, len(queries))
	for _, q := range queries {
		if price, err := f.Resolve(ctx, q); err == nil {
			prices[q.SeatUID] = price
		}
	}
	return prices, nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("cache miss")
}
func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, key string) error            { return nil }
func (noopCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (noopCache) Exists(ctx context.Context, key string) bool             { return false }
func (noopCache) Ping(ctx context.Context) error                          { return nil }

var _ cache.Service = noopCache{}

type seatingFixture struct {
	service  Service
	repo     *memRepo
	tierRepo *fakeTierRepo
	tenantID uuid.UUID
	layout   *layouts.SeatingLayout
	tierID   uuid.UUID
}

// newSeatingFixture builds a published two-row layout: FLOOR-A-1..2 and
// FLOOR-B-1..2, with FLOOR-B-2 unusable and the section tier at 5000.
func newSeatingFixture(t *testing.T) *seatingFixture {
	t.Helper()

	tenantID := uuid.New()
	tierID := uuid.New()
	now := time.Now().UTC()

	layout := &layouts.SeatingLayout{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        "Main Hall",
		Status:      layouts.StatusPublished,
		PublishedAt: &now,
		Sections: []layouts.LayoutSection{
			{
				Label:         "Floor",
				DefaultTierID: &tierID,
				Rows: []layouts.LayoutRow{
					{
						Label: "A",
						Seats: []layouts.LayoutSeat{
							{Label: "1", SeatUID: "FLOOR-A-1", SeatType: layouts.SeatTypeStandard},
							{Label: "2", SeatUID: "FLOOR-A-2", SeatType: layouts.SeatTypeStandard},
						},
					},
					{
						Label: "B",
						Seats: []layouts.LayoutSeat{
							{Label: "1", SeatUID: "FLOOR-B-1", SeatType: layouts.SeatTypeStandard},
							{Label: "2", SeatUID: "FLOOR-B-2", SeatType: layouts.SeatTypeUnusable},
						},
					},
				},
			},
		},
	}

	repo := newMemRepo()
	tierRepo := &fakeTierRepo{tiers: map[uuid.UUID]tiers.PriceTier{
		tierID: {ID: tierID, TenantID: tenantID, Code: "GA", Currency: "USD", PriceMinor: 5000},
	}}

	service := NewService(repo, &fakeLayouts{layout: layout}, tierRepo, fakePricing{},
		noopCache{}, stream.NewNoopProducer(), logger.GetDefault(), 0)

	return &seatingFixture{
		service:  service,
		repo:     repo,
		tierRepo: tierRepo,
		tenantID: tenantID,
		layout:   layout,
		tierID:   tierID,
	}
}

func (f *seatingFixture) snapshot(t *testing.T, soldSeatUIDs ...string) uuid.UUID {
	t.Helper()

	snapshot, err := f.service.SnapshotForEvent(context.Background(), f.tenantID, CreateSnapshotRequest{
		EventID:      uuid.New().String(),
		LayoutID:     f.layout.ID.String(),
		SoldSeatUIDs: soldSeatUIDs,
	})
	require.NoError(t, err)
	return uuid.MustParse(snapshot.ID)
}

func TestSnapshotForEvent(t *testing.T) {
	f := newSeatingFixture(t)
	seatingID := f.snapshot(t)

	seats, err := f.repo.GetSeats(seatingID)
	require.NoError(t, err)
	require.Len(t, seats, 4)

	byUID := make(map[string]EventSeat, len(seats))
	for _, seat := range seats {
		byUID[seat.SeatUID] = seat
	}

	for _, seatUID := range []string{"FLOOR-A-1", "FLOOR-A-2", "FLOOR-B-1"} {
		seat := byUID[seatUID]
		assert.Equal(t, StatusAvailable, seat.Status, seatUID)
		assert.Equal(t, 1, seat.Version, seatUID)
		require.NotNil(t, seat.PriceTierID, seatUID)
		assert.Equal(t, f.tierID, *seat.PriceTierID, seatUID)
	}

	// Unusable template seats are born disabled.
	assert.Equal(t, StatusDisabled, byUID["FLOOR-B-2"].Status)
}

func TestSnapshotForEventRestoresSoldSeats(t *testing.T) {
	f := newSeatingFixture(t)
	seatingID := f.snapshot(t, "floor-a-2")

	seat, err := f.repo.GetSeat(seatingID, "FLOOR-A-2")
	require.NoError(t, err)
	assert.Equal(t, StatusSold, seat.Status)
}

func TestSnapshotForEventRejectsUnknownSoldSeats(t *testing.T) {
	f := newSeatingFixture(t)

	_, err := f.service.SnapshotForEvent(context.Background(), f.tenantID, CreateSnapshotRequest{
		EventID:      uuid.New().String(),
		LayoutID:     f.layout.ID.String(),
		SoldSeatUIDs: []string{"FLOOR-Z-9"},
	})
	assert.ErrorIs(t, err, ErrUnknownSoldSeatUIDs)
}

func TestSnapshotForEventRejectsDoubleSnapshot(t *testing.T) {
	f := newSeatingFixture(t)
	eventID := uuid.New().String()

	req := CreateSnapshotRequest{EventID: eventID, LayoutID: f.layout.ID.String()}
	_, err := f.service.SnapshotForEvent(context.Background(), f.tenantID, req)
	require.NoError(t, err)

	_, err = f.service.SnapshotForEvent(context.Background(), f.tenantID, req)
	assert.ErrorIs(t, err, ErrAlreadySnapshotted)
}

func TestSnapshotForEventRequiresPublishedLayout(t *testing.T) {
	f := newSeatingFixture(t)
	f.layout.Status = layouts.StatusDraft

	_, err := f.service.SnapshotForEvent(context.Background(), f.tenantID, CreateSnapshotRequest{
		EventID:  uuid.New().String(),
		LayoutID: f.layout.ID.String(),
	})
	assert.ErrorIs(t, err, ErrLayoutNotPublished)
}

func TestBlockAndUnblockSeats(t *testing.T) {
	f := newSeatingFixture(t)
	seatingID := f.snapshot(t)
	ctx := context.Background()

	result, err := f.service.BlockSeats(ctx, f.tenantID, seatingID, []string{"floor-a-1", "FLOOR-A-2"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"FLOOR-A-1", "FLOOR-A-2"}, result.Updated)
	assert.Empty(t, result.Failed)

	seat, err := f.repo.GetSeat(seatingID, "FLOOR-A-1")
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, seat.Status)
	assert.Equal(t, 2, seat.Version)

	// Blocking an already blocked seat is idempotent.
	result, err = f.service.BlockSeats(ctx, f.tenantID, seatingID, []string{"FLOOR-A-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"FLOOR-A-1"}, result.Updated)

	seat, err = f.repo.GetSeat(seatingID, "FLOOR-A-1")
	require.NoError(t, err)
	assert.Equal(t, 2, seat.Version)

	result, err = f.service.UnblockSeats(ctx, f.tenantID, seatingID, []string{"FLOOR-A-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"FLOOR-A-1"}, result.Updated)

	seat, err = f.repo.GetSeat(seatingID, "FLOOR-A-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, seat.Status)
	assert.Equal(t, 3, seat.Version)
}

func TestBlockSeatsReportsPerSeatFailures(t *testing.T) {
	f := newSeatingFixture(t)
	seatingID := f.snapshot(t, "FLOOR-A-2")
	ctx := context.Background()

	result, err := f.service.BlockSeats(ctx, f.tenantID, seatingID, []string{"FLOOR-A-1", "FLOOR-A-2", "FLOOR-Z-9"})
	require.NoError(t, err)

	// Batches never abort: the available seat is blocked, the sold and the
	// unknown seat are reported individually.
	assert.Equal(t, []string{"FLOOR-A-1"}, result.Updated)
	require.Len(t, result.Failed, 2)

	failedUIDs := []string{result.Failed[0].SeatUID, result.Failed[1].SeatUID}
	assert.ElementsMatch(t, []string{"FLOOR-A-2", "FLOOR-Z-9"}, failedUIDs)

	// The sold seat is untouched.
	seat, err := f.repo.GetSeat(seatingID, "FLOOR-A-2")
	require.NoError(t, err)
	assert.Equal(t, StatusSold, seat.Status)
	assert.Equal(t, 1, seat.Version)
}

func TestDisableAndEnableSeats(t *testing.T) {
	f := newSeatingFixture(t)
	seatingID := f.snapshot(t)
	ctx := context.Background()

	result, err := f.service.DisableSeats(ctx, f.tenantID, seatingID, []string{"FLOOR-A-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"FLOOR-A-1"}, result.Updated)

	seat, err := f.repo.GetSeat(seatingID, "FLOOR-A-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, seat.Status)

	result, err = f.service.EnableSeats(ctx, f.tenantID, seatingID, []string{"FLOOR-A-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"FLOOR-A-1"}, result.Updated)

	seat, err = f.repo.GetSeat(seatingID, "FLOOR-A-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, seat.Status)
}

func TestBlockSeatsByLocation(t *testing.T) {
	f := newSeatingFixture(t)
	seatingID := f.snapshot(t)

	result, err := f.service.BlockSeatsByLocation(context.Background(), f.tenantID, seatingID, BlockByLocationRequest{
		SectionName: "Floor",
		RowLabel:    "A",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"FLOOR-A-1", "FLOOR-A-2"}, result.Updated)

	// Row B is untouched.
	seat, err := f.repo.GetSeat(seatingID, "FLOOR-B-1")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, seat.Status)
}

func TestGetSeatMap(t *testing.T) {
	f := newSeatingFixture(t)
	seatingID := f.snapshot(t)

	seatMap, err := f.service.GetSeatMap(context.Background(), f.tenantID, seatingID)
	require.NoError(t, err)
	require.Len(t, seatMap.Seats, 4)

	for _, entry := range seatMap.Seats {
		require.NotNil(t, entry.PriceMinor, entry.SeatUID)
		assert.Equal(t, int64(5000), *entry.PriceMinor, entry.SeatUID)
	}
}

// recordingCache captures Set calls so cache policy is observable.
type recordingCache struct {
	noopCache
	setKey string
	setTTL time.Duration
}

func (c *recordingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.setKey = key
	c.setTTL = ttl
	return nil
}

func TestGetSeatMapUsesConfiguredTTL(t *testing.T) {
	f := newSeatingFixture(t)

	recorder := &recordingCache{}
	configured := 42 * time.Second
	service := NewService(f.repo, &fakeLayouts{layout: f.layout}, f.tierRepo, fakePricing{},
		recorder, stream.NewNoopProducer(), logger.GetDefault(), configured)

	seatingID := f.snapshot(t)

	_, err := service.GetSeatMap(context.Background(), f.tenantID, seatingID)
	require.NoError(t, err)
	assert.Equal(t, configured, recorder.setTTL)
	assert.Contains(t, recorder.setKey, seatingID.String())
}

func TestGetSeatMapUnknownSnapshot(t *testing.T) {
	f := newSeatingFixture(t)

	_, err := f.service.GetSeatMap(context.Background(), f.tenantID, uuid.New())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestQuoteSeatPrice(t *testing.T) {
	f := newSeatingFixture(t)
	seatingID := f.snapshot(t)

	quote, err := f.service.QuoteSeatPrice(context.Background(), f.tenantID, seatingID, "floor-a-1", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, "FLOOR-A-1", quote.SeatUID)
	assert.Equal(t, int64(5000), quote.PriceMinor)
	assert.Equal(t, "USD", quote.Currency)

	_, err = f.service.QuoteSeatPrice(context.Background(), f.tenantID, seatingID, "FLOOR-Z-9", time.Now().UTC())
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestSectionAndRowRefs(t *testing.T) {
	assert.Equal(t, "FLOOR", SectionRef(" Floor "))
	assert.Equal(t, "FLOOR-A", RowRef("Floor", "a"))
	assert.Equal(t, "BALCONY LEFT-AA", RowRef("Balcony Left", "AA"))
}
