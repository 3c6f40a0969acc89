package holds

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotOwner means the calling session does not own the active hold.
	// Surfaced as an authorization failure and logged.
	ErrNotOwner = errors.New("hold is owned by another session")

	// ErrHoldNotFound means commit was asked for a seat with no active hold.
	ErrHoldNotFound = errors.New("no active hold for seat")

	ErrNoSeats       = errors.New("no seat UIDs given")
	ErrBatchTooLarge = errors.New("too many seats in one hold request")
)

// SeatsUnavailableError carries every seat in the batch that could not be
// held. Expected and user-facing; never logged as an error.
type SeatsUnavailableError struct {
	SeatUIDs []string
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("seats unavailable: %s", strings.Join(e.SeatUIDs, ", "))
}

// IsSeatsUnavailable reports whether err is a seats-unavailable failure.
func IsSeatsUnavailable(err error) bool {
	var unavailable *SeatsUnavailableError
	return errors.As(err, &unavailable)
}
