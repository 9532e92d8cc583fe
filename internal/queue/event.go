// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatPosition is one claimed (row, seat) position inside an event.
type SeatPosition struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}

// ReservationCreatedEvent is published after a reservation transaction
// commits.  It carries enough information for downstream consumers to
// log, notify or feed analytics without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64         `json:"reservation_id"`
	UserID        uint64         `json:"user_id"`
	PerformanceID uint64         `json:"performance_id"`
	PlayTitle     string         `json:"play_title"`
	HallName      string         `json:"hall_name"`
	ShowTime      string         `json:"show_time"`
	Seats         []SeatPosition `json:"seats"`
	CreatedAt     string         `json:"created_at"`
}
