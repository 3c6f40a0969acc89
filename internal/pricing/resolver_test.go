package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

// activeOverrides mirrors what the repository hands the resolver: only
// overrides whose window covers the instant.
func activeOverrides(overrides []PriceOverride, at time.Time) []PriceOverride {
	var active []PriceOverride
	for _, o := range overrides {
		if o.ActiveAt(at) {
			active = append(active, o)
		}
	}
	return active
}

func TestResolvePrecedenceLadder(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	q := ResolveQuery{
		EventSeatingID: uuid.New(),
		SeatUID:        "FLOOR-A-1",
		SectionRef:     "FLOOR",
		RowRef:         "FLOOR-A",
		TierPriceMinor: int64Ptr(5000),
		At:             now,
	}

	seatOverride := PriceOverride{
		ID: uuid.New(), SeatUID: strPtr("FLOOR-A-1"), PriceCents: 3000,
		EffectiveFrom: now.Add(-time.Hour),
	}
	rowOverride := PriceOverride{
		ID: uuid.New(), RowRef: strPtr("FLOOR-A"), PriceCents: 3500,
		EffectiveFrom: now.Add(-time.Hour),
	}
	sectionOverride := PriceOverride{
		ID: uuid.New(), SectionRef: strPtr("FLOOR"), PriceCents: 4000,
		EffectiveFrom: now.Add(-time.Hour),
	}

	t.Run("tier alone", func(t *testing.T) {
		price, ok := resolveFromOverrides(nil, q)
		require.True(t, ok)
		assert.Equal(t, int64(5000), price)
	})

	t.Run("section beats tier", func(t *testing.T) {
		price, ok := resolveFromOverrides([]PriceOverride{sectionOverride}, q)
		require.True(t, ok)
		assert.Equal(t, int64(4000), price)
	})

	t.Run("row beats section", func(t *testing.T) {
		price, ok := resolveFromOverrides([]PriceOverride{sectionOverride, rowOverride}, q)
		require.True(t, ok)
		assert.Equal(t, int64(3500), price)
	})

	t.Run("seat beats everything", func(t *testing.T) {
		price, ok := resolveFromOverrides([]PriceOverride{sectionOverride, rowOverride, seatOverride}, q)
		require.True(t, ok)
		assert.Equal(t, int64(3000), price)
	})

	t.Run("manual override beats tier but not overrides", func(t *testing.T) {
		manual := q
		manual.ManualOverride = int64Ptr(4500)

		price, ok := resolveFromOverrides(nil, manual)
		require.True(t, ok)
		assert.Equal(t, int64(4500), price)

		price, ok = resolveFromOverrides([]PriceOverride{sectionOverride}, manual)
		require.True(t, ok)
		assert.Equal(t, int64(4000), price)
	})

	t.Run("no source at all is unresolvable", func(t *testing.T) {
		bare := q
		bare.TierPriceMinor = nil

		_, ok := resolveFromOverrides(nil, bare)
		assert.False(t, ok)
	})
}

func TestResolveWindowedSeatOverride(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	saleStart := base.Add(24 * time.Hour)

	q := ResolveQuery{
		SeatUID:        "FLOOR-A-1",
		SectionRef:     "FLOOR",
		RowRef:         "FLOOR-A",
		TierPriceMinor: int64Ptr(5000),
	}

	overrides := []PriceOverride{
		{ID: uuid.New(), SectionRef: strPtr("FLOOR"), PriceCents: 4000, EffectiveFrom: base},
		{ID: uuid.New(), SeatUID: strPtr("FLOOR-A-1"), PriceCents: 3000, EffectiveFrom: saleStart},
	}

	// Before the seat override's window opens, the section override applies.
	before := q
	before.At = saleStart.Add(-time.Minute)
	price, ok := resolveFromOverrides(activeOverrides(overrides, before.At), before)
	require.True(t, ok)
	assert.Equal(t, int64(4000), price)

	// effective_from is inclusive.
	atOpen := q
	atOpen.At = saleStart
	price, ok = resolveFromOverrides(activeOverrides(overrides, atOpen.At), atOpen)
	require.True(t, ok)
	assert.Equal(t, int64(3000), price)
}

func TestOverrideActiveAt(t *testing.T) {
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)

	open := PriceOverride{EffectiveFrom: from}
	assert.False(t, open.ActiveAt(from.Add(-time.Second)))
	assert.True(t, open.ActiveAt(from))
	assert.True(t, open.ActiveAt(from.Add(1000*time.Hour)))

	closed := PriceOverride{EffectiveFrom: from, EffectiveTo: timePtr(to)}
	assert.True(t, closed.ActiveAt(from))
	assert.True(t, closed.ActiveAt(to.Add(-time.Second)))
	// effective_to is exclusive.
	assert.False(t, closed.ActiveAt(to))
	assert.False(t, closed.ActiveAt(to.Add(time.Hour)))
}

func TestResolveTieBreakIsDeterministic(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	q := ResolveQuery{
		SeatUID:    "FLOOR-A-1",
		SectionRef: "FLOOR",
		RowRef:     "FLOOR-A",
		At:         now,
	}

	older := PriceOverride{
		ID: uuid.New(), SectionRef: strPtr("FLOOR"), PriceCents: 4000,
		EffectiveFrom: now.Add(-2 * time.Hour), CreatedAt: now.Add(-2 * time.Hour),
	}
	newer := PriceOverride{
		ID: uuid.New(), SectionRef: strPtr("FLOOR"), PriceCents: 4200,
		EffectiveFrom: now.Add(-time.Hour), CreatedAt: now.Add(-time.Hour),
	}

	// Latest effective_from wins regardless of input order.
	for _, candidates := range [][]PriceOverride{
		{older, newer},
		{newer, older},
	} {
		price, ok := resolveFromOverrides(candidates, q)
		require.True(t, ok)
		assert.Equal(t, int64(4200), price)
	}

	// Same effective_from: latest created_at wins.
	sameFrom := older
	sameFrom.EffectiveFrom = newer.EffectiveFrom
	price, ok := resolveFromOverrides([]PriceOverride{sameFrom, newer}, q)
	require.True(t, ok)
	assert.Equal(t, int64(4200), price)

	// Fully tied except ID: the order is still total.
	idA := newer
	idA.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	idA.PriceCents = 4100
	idB := newer
	idB.ID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	idB.PriceCents = 4300
	idA.EffectiveFrom, idA.CreatedAt = newer.EffectiveFrom, newer.CreatedAt
	idB.EffectiveFrom, idB.CreatedAt = newer.EffectiveFrom, newer.CreatedAt

	for _, candidates := range [][]PriceOverride{
		{idA, idB},
		{idB, idA},
	} {
		price, ok := resolveFromOverrides(candidates, q)
		require.True(t, ok)
		assert.Equal(t, int64(4300), price)
	}
}
