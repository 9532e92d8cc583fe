package model

// Hall represents a theatre hall with a fixed rectangular seat layout.
// Rows and SeatsPerRow are 1-indexed bounds for ticket positions and are
// immutable once performances have been scheduled in the hall.  Capacity
// is derived and never stored.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – human readable hall name.
//  Rows        – number of seating rows (> 0).
//  SeatsPerRow – number of seats in each row (> 0).
type Hall struct {
	ID          uint64 `json:"id"`           // halls.id
	Name        string `json:"name"`         // halls.name
	Rows        uint32 `json:"rows"`         // halls.seat_rows
	SeatsPerRow uint32 `json:"seats_in_row"` // halls.seats_per_row
}

// Capacity returns the total number of seats in the hall.
func (h Hall) Capacity() uint64 {
	return uint64(h.Rows) * uint64(h.SeatsPerRow)
}
