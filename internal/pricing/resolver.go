package pricing

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ResolveQuery carries everything price resolution needs about one seat. The
// seat row itself lives in the seating package; callers flatten it here so
// resolution stays free of cross-package reads.
type ResolveQuery struct {
	EventSeatingID uuid.UUID
	SeatUID        string
	SectionRef     string
	RowRef         string
	ManualOverride *int64
	TierPriceMinor *int64
	At             time.Time
}

// resolveFromOverrides applies the precedence ladder over a candidate set:
// seat-scoped override, then row, then section, then the seat's manual
// override, then the tier. Candidates must already be window-filtered.
func resolveFromOverrides(overrides []PriceOverride, q ResolveQuery) (int64, bool) {
	sortOverrides(overrides)

	if price, ok := firstMatch(overrides, func(o PriceOverride) bool {
		return o.SeatUID != nil && *o.SeatUID == q.SeatUID
	}); ok {
		return price, true
	}

	if price, ok := firstMatch(overrides, func(o PriceOverride) bool {
		return o.RowRef != nil && *o.RowRef == q.RowRef
	}); ok {
		return price, true
	}

	if price, ok := firstMatch(overrides, func(o PriceOverride) bool {
		return o.SectionRef != nil && *o.SectionRef == q.SectionRef
	}); ok {
		return price, true
	}

	if q.ManualOverride != nil {
		return *q.ManualOverride, true
	}

	if q.TierPriceMinor != nil {
		return *q.TierPriceMinor, true
	}

	return 0, false
}

func firstMatch(overrides []PriceOverride, match func(PriceOverride) bool) (int64, bool) {
	for _, o := range overrides {
		if match(o) {
			return o.PriceCents, true
		}
	}
	return 0, false
}

// sortOverrides orders candidates by the tie-break policy: latest
// effective_from wins, then latest created_at, then id descending. The id
// comparison makes the order total, so resolution is reproducible.
func sortOverrides(overrides []PriceOverride) {
	sort.SliceStable(overrides, func(i, j int) bool {
		if !overrides[i].EffectiveFrom.Equal(overrides[j].EffectiveFrom) {
			return overrides[i].EffectiveFrom.After(overrides[j].EffectiveFrom)
		}
		if !overrides[i].CreatedAt.Equal(overrides[j].CreatedAt) {
			return overrides[i].CreatedAt.After(overrides[j].CreatedAt)
		}
		return overrides[i].ID.String() > overrides[j].ID.String()
	})
}
