package seating

import (
	"errors"
	"fmt"
)

var (
	ErrSnapshotNotFound = errors.New("event seating not found")
	ErrSeatNotFound     = errors.New("seat not found")

	// Snapshot lifecycle errors; operator-facing, never retried automatically.
	ErrLayoutNotPublished  = errors.New("layout is not published")
	ErrAlreadySnapshotted  = errors.New("event already has a seating snapshot")
	ErrUnknownSoldSeatUIDs = errors.New("sold seat UIDs not present in layout")
)

// ConflictReason classifies why a compare-and-swap on a seat failed.
type ConflictReason string

const (
	ConflictStaleVersion      ConflictReason = "stale_version"
	ConflictInvalidTransition ConflictReason = "invalid_transition"
)

// ConflictError is returned by AttemptTransition when the conditional write
// did not apply. It carries the seat's current state so callers can decide
// whether to retry or surface "seat taken".
type ConflictError struct {
	SeatUID        string
	Reason         ConflictReason
	CurrentStatus  SeatStatus
	CurrentVersion int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seat %s transition conflict (%s): status=%s version=%d",
		e.SeatUID, e.Reason, e.CurrentStatus, e.CurrentVersion)
}

// IsConflict reports whether err is a seat transition conflict.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}
