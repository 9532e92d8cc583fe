package booking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBounds(t *testing.T) {
	tests := []struct {
		name      string
		rows      uint32
		seats     uint32
		seat      SeatRef
		wantDim   string
		wantValue uint32
		wantLimit uint32
	}{
		{name: "first seat", rows: 10, seats: 20, seat: SeatRef{Row: 1, Seat: 1}},
		{name: "last seat", rows: 10, seats: 20, seat: SeatRef{Row: 10, Seat: 20}},
		{name: "middle seat", rows: 10, seats: 20, seat: SeatRef{Row: 5, Seat: 10}},
		{name: "row zero", rows: 10, seats: 20, seat: SeatRef{Row: 0, Seat: 1}, wantDim: "row", wantValue: 0, wantLimit: 10},
		{name: "row too large", rows: 10, seats: 20, seat: SeatRef{Row: 11, Seat: 1}, wantDim: "row", wantValue: 11, wantLimit: 10},
		{name: "seat zero", rows: 10, seats: 20, seat: SeatRef{Row: 1, Seat: 0}, wantDim: "seat", wantValue: 0, wantLimit: 20},
		{name: "seat too large", rows: 10, seats: 20, seat: SeatRef{Row: 1, Seat: 21}, wantDim: "seat", wantValue: 21, wantLimit: 20},
		{name: "row checked before seat", rows: 10, seats: 20, seat: SeatRef{Row: 99, Seat: 99}, wantDim: "row", wantValue: 99, wantLimit: 10},
		{name: "single seat hall", rows: 1, seats: 1, seat: SeatRef{Row: 1, Seat: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBounds(tt.rows, tt.seats, tt.seat)
			if tt.wantDim == "" {
				assert.NoError(t, err)
				return
			}
			var oob *OutOfBoundsError
			require.True(t, errors.As(err, &oob))
			assert.Equal(t, tt.wantDim, oob.Dimension)
			assert.Equal(t, tt.wantValue, oob.Value)
			assert.Equal(t, tt.wantLimit, oob.Limit)
		})
	}
}

func TestOutOfBoundsErrorMessage(t *testing.T) {
	err := CheckBounds(10, 20, SeatRef{Row: 99, Seat: 5})
	require.Error(t, err)
	assert.Equal(t, "row 99 is out of bounds: must be between 1 and 10", err.Error())

	err = CheckBounds(10, 20, SeatRef{Row: 5, Seat: 25})
	require.Error(t, err)
	assert.Equal(t, "seat 25 is out of bounds: must be between 1 and 20", err.Error())
}

func TestSeatTakenErrorMessage(t *testing.T) {
	err := &SeatTakenError{Row: 5, Seat: 10}
	assert.Equal(t, "seat (5, 10) is taken", err.Error())
}
