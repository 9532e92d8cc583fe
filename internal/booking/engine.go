package booking

import (
	"context"
	"time"

	"github.com/iliyamo/theatre-reservation/internal/model"
)

// PerformanceInfo carries the slice of catalog data the engine needs:
// the performance's identity and its hall's seat bounds.
type PerformanceInfo struct {
	ID          uint64
	PlayTitle   string
	HallID      uint64
	HallName    string
	Rows        uint32
	SeatsPerRow uint32
	ShowTime    time.Time
}

// Tx is the engine's view of a storage transaction.  The concrete
// implementation is *sql.Tx; tests substitute their own.
type Tx interface {
	Commit() error
	Rollback() error
}

// Store is the storage contract the engine runs against.  All ticket
// and reservation writes happen inside the transaction returned by
// Begin, and InsertTicket must be backed by a uniqueness constraint on
// (performance, row, seat) so that the losing side of a write race
// fails with *SeatTakenError rather than committing a duplicate.
type Store interface {
	// Begin opens the transaction the reservation will commit in.
	Begin(ctx context.Context) (Tx, error)
	// GetPerformance resolves a performance and its hall bounds.  It
	// returns ErrPerformanceNotFound when no such performance exists.
	GetPerformance(ctx context.Context, id uint64) (*PerformanceInfo, error)
	// SeatTaken reports whether a ticket already claims the given
	// position, reading through the supplied transaction.
	SeatTaken(ctx context.Context, tx Tx, performanceID uint64, seat SeatRef) (bool, error)
	// InsertReservation creates the reservation row for the user and
	// returns it with ID and CreatedAt populated.
	InsertReservation(ctx context.Context, tx Tx, userID uint64) (*model.Reservation, error)
	// InsertTicket creates one ticket row.  A uniqueness-constraint
	// violation must be returned as *SeatTakenError for the seat.
	InsertTicket(ctx context.Context, tx Tx, reservationID, performanceID uint64, seat SeatRef) (*model.Ticket, error)
}

// Engine executes the reservation transaction.  It holds no mutable
// state of its own; all shared state lives behind Store and the only
// synchronization point is the storage layer's transaction plus its
// uniqueness constraint.
type Engine struct {
	store Store
}

// NewEngine returns an Engine bound to the given store.
func NewEngine(store Store) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{store: store}
}

// CreateReservation validates and commits a reservation for userID on
// the given performance, claiming the requested seats in input order.
// Either the reservation and every ticket exist afterwards, or nothing
// does.  The first invalid or taken seat aborts the whole operation:
// ErrNoSeatsRequested, ErrPerformanceNotFound, *OutOfBoundsError and
// *SeatTakenError are expected rejections; anything else is a storage
// failure the caller should treat as internal.
func (e *Engine) CreateReservation(ctx context.Context, userID, performanceID uint64, seats []SeatRef) (*model.Reservation, error) {
	if len(seats) == 0 {
		return nil, ErrNoSeatsRequested
	}

	perf, err := e.store.GetPerformance(ctx, performanceID)
	if err != nil {
		return nil, err
	}
	for _, s := range seats {
		if err := CheckBounds(perf.Rows, perf.SeatsPerRow, s); err != nil {
			return nil, err
		}
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Fast-feedback pre-check.  Two transactions can both pass it for
	// the same seat; the unique key on tickets settles that race at
	// insert time.
	for _, s := range seats {
		taken, err := e.store.SeatTaken(ctx, tx, performanceID, s)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &SeatTakenError{Row: s.Row, Seat: s.Seat}
		}
	}

	res, err := e.store.InsertReservation(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	res.Tickets = make([]model.Ticket, 0, len(seats))
	for _, s := range seats {
		t, err := e.store.InsertTicket(ctx, tx, res.ID, performanceID, s)
		if err != nil {
			return nil, err
		}
		res.Tickets = append(res.Tickets, *t)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}

// Performance exposes the catalog lookup so handlers can enrich
// responses and events without a second storage dependency.
func (e *Engine) Performance(ctx context.Context, id uint64) (*PerformanceInfo, error) {
	return e.store.GetPerformance(ctx, id)
}
