// Package booking implements the seat-reservation transaction engine.
// It validates a requested set of (row, seat) pairs against a
// performance's hall bounds and commits the resulting reservation and
// tickets as a single all-or-nothing unit of work.  The authoritative
// conflict detector is the storage layer's uniqueness constraint on
// (performance, row, seat); every in-engine check exists only to give
// callers a fast, specific rejection.
package booking

import (
	"errors"
	"fmt"
)

// ErrPerformanceNotFound is returned when the requested performance
// does not exist.  Handlers should translate this into an HTTP 404.
var ErrPerformanceNotFound = errors.New("performance not found")

// ErrNoSeatsRequested is returned when a reservation request carries an
// empty seat list.  An empty request is malformed, never an empty
// reservation.
var ErrNoSeatsRequested = errors.New("at least one seat is required")

// OutOfBoundsError reports a seat coordinate outside the hall layout.
// Dimension names the coordinate that failed ("row" or "seat"), Value
// is the rejected input and Limit is the hall's upper bound for that
// dimension.
type OutOfBoundsError struct {
	Dimension string
	Value     uint32
	Limit     uint32
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%s %d is out of bounds: must be between 1 and %d", e.Dimension, e.Value, e.Limit)
}

// SeatTakenError reports that a requested seat is already claimed by an
// existing ticket on the same performance.  It is a normal, user-facing
// rejection whether it is raised by the in-transaction pre-check or by
// the storage uniqueness constraint at insert time.
type SeatTakenError struct {
	Row  uint32
	Seat uint32
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat (%d, %d) is taken", e.Row, e.Seat)
}
