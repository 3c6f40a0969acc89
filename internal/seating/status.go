package seating

// SeatStatus is the sale status of one event seat.
type SeatStatus string

const (
	StatusAvailable SeatStatus = "available"
	StatusHeld      SeatStatus = "held"
	StatusSold      SeatStatus = "sold"
	StatusBlocked   SeatStatus = "blocked"
	StatusDisabled  SeatStatus = "disabled"
)

// validTransitions is the complete transition table. sold is terminal;
// disabled only re-enables. Everything else is a conflict.
var validTransitions = map[SeatStatus]map[SeatStatus]bool{
	StatusAvailable: {
		StatusHeld:     true,
		StatusBlocked:  true,
		StatusDisabled: true,
	},
	StatusHeld: {
		StatusAvailable: true,
		StatusSold:      true,
		StatusBlocked:   true,
	},
	StatusBlocked: {
		StatusAvailable: true,
	},
	StatusDisabled: {
		StatusAvailable: true,
	},
}

// CanTransition reports whether from → to is a permitted seat transition.
func CanTransition(from, to SeatStatus) bool {
	return validTransitions[from][to]
}

// IsValidStatus reports whether s is one of the known seat statuses.
func IsValidStatus(s SeatStatus) bool {
	switch s {
	case StatusAvailable, StatusHeld, StatusSold, StatusBlocked, StatusDisabled:
		return true
	}
	return false
}
