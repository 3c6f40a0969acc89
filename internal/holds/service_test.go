package holds

import (
	"context"
	"sync"
	"testing"
	"time"

	"seatgrid/internal/seating"
	"seatgrid/internal/shared/config"
	"seatgrid/internal/stream"
	"seatgrid/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeSeatRepo keeps one snapshot's seats in memory and mirrors the CAS
// semantics of the real repository: a transition applies only when both the
// expected status and version match, and misses are classified.
type fakeSeatRepo struct {
	mu    sync.Mutex
	seats map[string]seating.EventSeat
}

func newFakeSeatRepo(seatUIDs ...string) *fakeSeatRepo {
	seats := make(map[string]seating.EventSeat, len(seatUIDs))
	for _, seatUID := range seatUIDs {
		seats[seatUID] = seating.EventSeat{
			ID:      uuid.New(),
			SeatUID: seatUID,
			Status:  seating.StatusAvailable,
			Version: 1,
		}
	}
	return &fakeSeatRepo{seats: seats}
}

func (r *fakeSeatRepo) setStatus(seatUID string, status seating.SeatStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat := r.seats[seatUID]
	seat.Status = status
	r.seats[seatUID] = seat
}

func (r *fakeSeatRepo) snapshot() map[string]seating.EventSeat {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(map[string]seating.EventSeat, len(r.seats))
	for k, v := range r.seats {
		copied[k] = v
	}
	return copied
}

func (r *fakeSeatRepo) restore(seats map[string]seating.EventSeat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seats = seats
}

func (r *fakeSeatRepo) GetSeat(eventSeatingID uuid.UUID, seatUID string) (*seating.EventSeat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seats[seatUID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &seat, nil
}

func (r *fakeSeatRepo) AttemptTransition(eventSeatingID uuid.UUID, seatUID string, expectedStatus seating.SeatStatus, expectedVersion int, newStatus seating.SeatStatus) (*seating.EventSeat, error) {
	if !seating.CanTransition(expectedStatus, newStatus) {
		return nil, &seating.ConflictError{
			SeatUID:        seatUID,
			Reason:         seating.ConflictInvalidTransition,
			CurrentStatus:  expectedStatus,
			CurrentVersion: expectedVersion,
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.seats[seatUID]
	if !ok {
		return nil, seating.ErrSeatNotFound
	}

	if current.Status == expectedStatus && current.Version == expectedVersion {
		current.Status = newStatus
		current.Version++
		current.LastChangeAt = time.Now().UTC()
		r.seats[seatUID] = current
		return &current, nil
	}

	reason := seating.ConflictInvalidTransition
	if seating.CanTransition(current.Status, newStatus) {
		reason = seating.ConflictStaleVersion
	}
	return nil, &seating.ConflictError{
		SeatUID:        seatUID,
		Reason:         reason,
		CurrentStatus:  current.Status,
		CurrentVersion: current.Version,
	}
}

func (r *fakeSeatRepo) CreateSnapshot(snapshot *seating.EventSeating, seats []seating.EventSeat) error {
	return nil
}

func (r *fakeSeatRepo) GetSnapshotByID(tenantID, id uuid.UUID) (*seating.EventSeating, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSeatRepo) GetSnapshotByEventID(tenantID, eventID uuid.UUID) (*seating.EventSeating, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSeatRepo) GetSeats(eventSeatingID uuid.UUID) ([]seating.EventSeat, error) {
	return nil, nil
}

func (r *fakeSeatRepo) GetSeatsByLocation(eventSeatingID uuid.UUID, sectionName, rowLabel string) ([]seating.EventSeat, error) {
	return nil, nil
}

func (r *fakeSeatRepo) WithTx(tx *gorm.DB) seating.Repository { return r }

// fakeHoldRepo backs the hold rows and implements Atomic by snapshotting both
// stores and restoring them when fn fails, matching transaction rollback.
type fakeHoldRepo struct {
	seats *fakeSeatRepo
	holds map[string]SeatHold
}

func newFakeHoldRepo(seats *fakeSeatRepo) *fakeHoldRepo {
	return &fakeHoldRepo{seats: seats, holds: make(map[string]SeatHold)}
}

func (r *fakeHoldRepo) Atomic(fn func(Repository) error) error {
	seatBackup := r.seats.snapshot()
	holdBackup := make(map[string]SeatHold, len(r.holds))
	for k, v := range r.holds {
		holdBackup[k] = v
	}

	if err := fn(r); err != nil {
		r.seats.restore(seatBackup)
		r.holds = holdBackup
		return err
	}
	return nil
}

func (r *fakeHoldRepo) Seats() seating.Repository { return r.seats }

func (r *fakeHoldRepo) CreateHold(hold *SeatHold) error {
	if hold.ID == uuid.Nil {
		hold.ID = uuid.New()
	}
	if hold.CreatedAt.IsZero() {
		hold.CreatedAt = time.Now().UTC()
	}
	r.holds[hold.SeatUID] = *hold
	return nil
}

func (r *fakeHoldRepo) GetHold(eventSeatingID uuid.UUID, seatUID string) (*SeatHold, error) {
	hold, ok := r.holds[seatUID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &hold, nil
}

func (r *fakeHoldRepo) GetSessionHolds(eventSeatingID uuid.UUID, sessionUID string) ([]SeatHold, error) {
	var holds []SeatHold
	for _, hold := range r.holds {
		if hold.SessionUID == sessionUID {
			holds = append(holds, hold)
		}
	}
	return holds, nil
}

func (r *fakeHoldRepo) DeleteHold(eventSeatingID uuid.UUID, seatUID string) error {
	delete(r.holds, seatUID)
	return nil
}

func (r *fakeHoldRepo) GetExpired(now time.Time, limit int) ([]SeatHold, error) {
	var expired []SeatHold
	for _, hold := range r.holds {
		if !hold.ExpiresAt.After(now) {
			expired = append(expired, hold)
		}
		if len(expired) == limit {
			break
		}
	}
	return expired, nil
}

// fakeSeatMapCache records invalidations; only InvalidateSeatMap is reachable
// from the hold manager.
type fakeSeatMapCache struct {
	seating.Service
	invalidations int
}

func (f *fakeSeatMapCache) InvalidateSeatMap(ctx context.Context, eventSeatingID uuid.UUID) {
	f.invalidations++
}

type capturingProducer struct {
	events []*stream.SeatEvent
}

func (p *capturingProducer) PublishSeatEvent(ctx context.Context, event *stream.SeatEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturingProducer) PublishSeatEvents(ctx context.Context, events []*stream.SeatEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingProducer) Close() error { return nil }

func testHoldConfig() config.HoldConfig {
	return config.HoldConfig{
		DefaultTTL:    5 * time.Minute,
		MaxBatchSize:  10,
		SweepInterval: 30 * time.Second,
		SweepBatch:    100,
	}
}

type holdFixture struct {
	service  Service
	seats    *fakeSeatRepo
	repo     *fakeHoldRepo
	cache    *fakeSeatMapCache
	producer *capturingProducer
}

func newHoldFixture(seatUIDs ...string) *holdFixture {
	seats := newFakeSeatRepo(seatUIDs...)
	repo := newFakeHoldRepo(seats)
	cache := &fakeSeatMapCache{}
	producer := &capturingProducer{}

	return &holdFixture{
		service:  NewService(repo, cache, producer, logger.GetDefault(), testHoldConfig()),
		seats:    seats,
		repo:     repo,
		cache:    cache,
		producer: producer,
	}
}

func TestHoldSeatsHoldsWholeBatch(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1", "FLOOR-A-2")
	seatingID := uuid.New()

	held, err := f.service.HoldSeats(context.Background(), seatingID, []string{"FLOOR-A-1", "FLOOR-A-2"}, "session-1", time.Minute)
	require.NoError(t, err)
	require.Len(t, held, 2)

	for _, seatUID := range []string{"FLOOR-A-1", "FLOOR-A-2"} {
		seat, err := f.seats.GetSeat(seatingID, seatUID)
		require.NoError(t, err)
		assert.Equal(t, seating.StatusHeld, seat.Status)
		assert.Equal(t, 2, seat.Version)

		_, err = f.repo.GetHold(seatingID, seatUID)
		assert.NoError(t, err)
	}

	assert.Len(t, f.producer.events, 2)
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestHoldSeatsAllOrNothing(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1", "FLOOR-A-2", "FLOOR-A-3")
	f.seats.setStatus("FLOOR-A-2", seating.StatusSold)
	seatingID := uuid.New()

	_, err := f.service.HoldSeats(context.Background(), seatingID, []string{"FLOOR-A-1", "FLOOR-A-2", "FLOOR-A-3"}, "session-1", time.Minute)
	require.Error(t, err)

	var unavailable *SeatsUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"FLOOR-A-2"}, unavailable.SeatUIDs)

	// Every transition the batch made before hitting the sold seat is undone.
	for _, seatUID := range []string{"FLOOR-A-1", "FLOOR-A-3"} {
		seat, err := f.seats.GetSeat(seatingID, seatUID)
		require.NoError(t, err)
		assert.Equal(t, seating.StatusAvailable, seat.Status)
		assert.Equal(t, 1, seat.Version)

		_, err = f.repo.GetHold(seatingID, seatUID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	}

	assert.Empty(t, f.producer.events)
}

func TestHoldSeatsUnknownSeatFailsBatch(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")
	seatingID := uuid.New()

	_, err := f.service.HoldSeats(context.Background(), seatingID, []string{"FLOOR-A-1", "FLOOR-Z-9"}, "session-1", time.Minute)

	var unavailable *SeatsUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"FLOOR-Z-9"}, unavailable.SeatUIDs)
}

func TestHoldSeatsContestedSeatHasOneWinner(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")
	seatingID := uuid.New()

	_, err := f.service.HoldSeats(context.Background(), seatingID, []string{"FLOOR-A-1"}, "session-1", time.Minute)
	require.NoError(t, err)

	_, err = f.service.HoldSeats(context.Background(), seatingID, []string{"FLOOR-A-1"}, "session-2", time.Minute)
	require.True(t, IsSeatsUnavailable(err))

	hold, err := f.repo.GetHold(seatingID, "FLOOR-A-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", hold.SessionUID)
}

func TestHoldSeatsNormalizesInput(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")
	seatingID := uuid.New()

	held, err := f.service.HoldSeats(context.Background(), seatingID, []string{" floor-a-1 ", "FLOOR-A-1", "floor-a-1"}, "session-1", time.Minute)
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, "FLOOR-A-1", held[0].SeatUID)
}

func TestHoldSeatsValidatesBatch(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")
	seatingID := uuid.New()

	_, err := f.service.HoldSeats(context.Background(), seatingID, nil, "session-1", time.Minute)
	assert.ErrorIs(t, err, ErrNoSeats)

	_, err = f.service.HoldSeats(context.Background(), seatingID, []string{"  ", ""}, "session-1", time.Minute)
	assert.ErrorIs(t, err, ErrNoSeats)

	tooMany := make([]string, 11)
	for i := range tooMany {
		tooMany[i] = "FLOOR-A-" + string(rune('A'+i))
	}
	_, err = f.service.HoldSeats(context.Background(), seatingID, tooMany, "session-1", time.Minute)
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestHoldSeatsDefaultTTL(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")
	seatingID := uuid.New()

	before := time.Now().UTC()
	held, err := f.service.HoldSeats(context.Background(), seatingID, []string{"FLOOR-A-1"}, "session-1", 0)
	require.NoError(t, err)
	require.Len(t, held, 1)

	want := before.Add(testHoldConfig().DefaultTTL)
	assert.WithinDuration(t, want, held[0].ExpiresAt, 5*time.Second)
}

func TestReleaseHoldRoundTrip(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")
	seatingID := uuid.New()
	ctx := context.Background()

	_, err := f.service.HoldSeats(ctx, seatingID, []string{"FLOOR-A-1"}, "session-1", time.Minute)
	require.NoError(t, err)

	require.NoError(t, f.service.ReleaseHold(ctx, seatingID, "floor-a-1", "session-1"))

	seat, err := f.seats.GetSeat(seatingID, "FLOOR-A-1")
	require.NoError(t, err)
	assert.Equal(t, seating.StatusAvailable, seat.Status)
	// One increment for the hold, one for the release.
	assert.Equal(t, 3, seat.Version)

	_, err = f.repo.GetHold(seatingID, "FLOOR-A-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReleaseHoldIsIdempotent(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")
	seatingID := uuid.New()

	assert.NoError(t, f.service.ReleaseHold(context.Background(), seatingID, "FLOOR-A-1", "session-1"))
}

func TestReleaseHoldRejectsNonOwner(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")
	seatingID := uuid.New()
	ctx := context.Background()

	_, err := f.service.HoldSeats(ctx, seatingID, []string{"FLOOR-A-1"}, "session-1", time.Minute)
	require.NoError(t, err)

	err = f.service.ReleaseHold(ctx, seatingID, "FLOOR-A-1", "session-2")
	assert.ErrorIs(t, err, ErrNotOwner)

	// The hold and the seat are untouched.
	seat, err := f.seats.GetSeat(seatingID, "FLOOR-A-1")
	require.NoError(t, err)
	assert.Equal(t, seating.StatusHeld, seat.Status)
}

func TestCommitHold(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")
	seatingID := uuid.New()
	ctx := context.Background()

	_, err := f.service.HoldSeats(ctx, seatingID, []string{"FLOOR-A-1"}, "session-1", time.Minute)
	require.NoError(t, err)

	require.NoError(t, f.service.CommitHold(ctx, seatingID, "FLOOR-A-1", "session-1"))

	seat, err := f.seats.GetSeat(seatingID, "FLOOR-A-1")
	require.NoError(t, err)
	assert.Equal(t, seating.StatusSold, seat.Status)
	assert.Equal(t, 3, seat.Version)

	_, err = f.repo.GetHold(seatingID, "FLOOR-A-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Sold is terminal: a second commit finds no hold.
	err = f.service.CommitHold(ctx, seatingID, "FLOOR-A-1", "session-1")
	assert.ErrorIs(t, err, ErrHoldNotFound)
}

func TestCommitHoldWithoutHold(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")

	err := f.service.CommitHold(context.Background(), uuid.New(), "FLOOR-A-1", "session-1")
	assert.ErrorIs(t, err, ErrHoldNotFound)
}

func TestCommitHoldRejectsNonOwner(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")
	seatingID := uuid.New()
	ctx := context.Background()

	_, err := f.service.HoldSeats(ctx, seatingID, []string{"FLOOR-A-1"}, "session-1", time.Minute)
	require.NoError(t, err)

	err = f.service.CommitHold(ctx, seatingID, "FLOOR-A-1", "session-2")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestSweepExpired(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1", "FLOOR-A-2")
	seatingID := uuid.New()
	ctx := context.Background()

	_, err := f.service.HoldSeats(ctx, seatingID, []string{"FLOOR-A-1"}, "session-1", time.Second)
	require.NoError(t, err)
	_, err = f.service.HoldSeats(ctx, seatingID, []string{"FLOOR-A-2"}, "session-2", time.Hour)
	require.NoError(t, err)

	// Sweep at a point past the first hold's TTL but before the second's.
	released, err := f.service.SweepExpired(ctx, time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	expired, err := f.seats.GetSeat(seatingID, "FLOOR-A-1")
	require.NoError(t, err)
	assert.Equal(t, seating.StatusAvailable, expired.Status)

	live, err := f.seats.GetSeat(seatingID, "FLOOR-A-2")
	require.NoError(t, err)
	assert.Equal(t, seating.StatusHeld, live.Status)
	_, err = f.repo.GetHold(seatingID, "FLOOR-A-2")
	assert.NoError(t, err)

	// A second sweep at the same instant finds nothing: sweeping is idempotent.
	released, err = f.service.SweepExpired(ctx, time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, released)
}

func TestSweepSkipsHoldsReleasedMidSweep(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1")
	seatingID := uuid.New()
	ctx := context.Background()

	_, err := f.service.HoldSeats(ctx, seatingID, []string{"FLOOR-A-1"}, "session-1", time.Second)
	require.NoError(t, err)
	require.NoError(t, f.service.ReleaseHold(ctx, seatingID, "FLOOR-A-1", "session-1"))

	released, err := f.service.SweepExpired(ctx, time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, released)
}

func TestGetSessionHolds(t *testing.T) {
	f := newHoldFixture("FLOOR-A-1", "FLOOR-A-2")
	seatingID := uuid.New()
	ctx := context.Background()

	_, err := f.service.HoldSeats(ctx, seatingID, []string{"FLOOR-A-1"}, "session-1", time.Minute)
	require.NoError(t, err)
	_, err = f.service.HoldSeats(ctx, seatingID, []string{"FLOOR-A-2"}, "session-2", time.Minute)
	require.NoError(t, err)

	holds, err := f.service.GetSessionHolds(seatingID, "session-1")
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, "FLOOR-A-1", holds[0].SeatUID)
	assert.Greater(t, holds[0].RemainingSeconds, int64(0))
}
