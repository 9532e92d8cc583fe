package model

import "time"

// Performance is a scheduled showing of a play in a hall at a given
// time.  Its seat bounds are exactly the hall's bounds.
//
// Fields:
//  ID       – primary key identifier.
//  PlayID   – play being performed.
//  HallID   – hall hosting the performance.
//  ShowTime – when the performance starts.
type Performance struct {
	ID       uint64    `json:"id"`           // performances.id
	PlayID   uint64    `json:"play"`         // performances.play_id
	HallID   uint64    `json:"theatre_hall"` // performances.hall_id
	ShowTime time.Time `json:"show_time"`    // performances.show_time
}
