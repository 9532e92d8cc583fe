package booking

// SeatRef identifies one requested seat position.  Row and Seat are
// 1-indexed against the hall layout.
type SeatRef struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}

// CheckBounds validates a seat position against a hall layout of the
// given dimensions.  It returns nil when 1 <= row <= rows and
// 1 <= seat <= seatsPerRow, and an *OutOfBoundsError naming the first
// failing dimension otherwise.  Pure function, no side effects.
func CheckBounds(rows, seatsPerRow uint32, s SeatRef) error {
	if s.Row < 1 || s.Row > rows {
		return &OutOfBoundsError{Dimension: "row", Value: s.Row, Limit: rows}
	}
	if s.Seat < 1 || s.Seat > seatsPerRow {
		return &OutOfBoundsError{Dimension: "seat", Value: s.Seat, Limit: seatsPerRow}
	}
	return nil
}
