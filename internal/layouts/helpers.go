package layouts

import (
	"fmt"
	"strings"
)

// BuildSeatUID derives the stable seat identifier from its labels. The UID is
// what holds, overrides and the seat map key on, so it must be deterministic:
// SECTION-ROW-SEAT, upper-cased, labels trimmed.
func BuildSeatUID(sectionLabel, rowLabel, seatLabel string) string {
	return strings.ToUpper(fmt.Sprintf("%s-%s-%s",
		strings.TrimSpace(sectionLabel),
		strings.TrimSpace(rowLabel),
		strings.TrimSpace(seatLabel)))
}
