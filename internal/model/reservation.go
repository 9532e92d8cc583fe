package model

import "time"

// Reservation groups the tickets a user committed in one booking
// transaction.  CreatedAt is set once at creation and never updated.
// A committed reservation always carries at least one ticket; when no
// ticket can be created the whole reservation is rolled back, so a
// zero-ticket reservation is never observable.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning user; only the owner can see or cancel it.
//  CreatedAt – creation timestamp (UTC, immutable).
//  Tickets   – tickets committed with this reservation.
type Reservation struct {
	ID        uint64    `json:"id"`         // reservations.id
	UserID    uint64    `json:"-"`          // reservations.user_id
	CreatedAt time.Time `json:"created_at"` // reservations.created_at
	Tickets   []Ticket  `json:"tickets"`    // tickets rows, cascade-deleted with the reservation
}

// Ticket is a claim on one (row, seat) position for one performance.
// Tickets exist only inside a successfully committed reservation and
// are removed together with it.  No two tickets ever share the same
// (performance, row, seat) triple; the tickets table enforces this with
// a composite unique key.
//
// Fields:
//  ID            – primary key identifier.
//  Row           – 1-indexed row within the hall.
//  Seat          – 1-indexed seat within the row.
//  PerformanceID – performance the seat is claimed for.
//  ReservationID – owning reservation.
type Ticket struct {
	ID            uint64 `json:"id"`          // tickets.id
	Row           uint32 `json:"row"`         // tickets.row_num
	Seat          uint32 `json:"seat"`        // tickets.seat_num
	PerformanceID uint64 `json:"performance"` // tickets.performance_id
	ReservationID uint64 `json:"-"`           // tickets.reservation_id
}
