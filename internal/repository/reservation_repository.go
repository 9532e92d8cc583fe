package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/theatre-reservation/internal/booking"
	"github.com/iliyamo/theatre-reservation/internal/model"
)

// ReservationRepo persists reservations and their tickets and is the
// storage side of the reservation transaction: it implements
// booking.Store on top of *sql.DB.  The tickets table carries a unique
// key on (performance_id, row_num, seat_num); that key, not any check
// in Go, is what makes concurrent requests for the same seat safe —
// the second writer's insert fails with a duplicate-entry error which
// is mapped to *booking.SeatTakenError here.  All timestamps are UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Begin opens the transaction a reservation commits in.
func (r *ReservationRepo) Begin(ctx context.Context) (booking.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

// sqlTx unwraps the engine's transaction handle back into *sql.Tx.
func sqlTx(tx booking.Tx) (*sql.Tx, error) {
	t, ok := tx.(*sql.Tx)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction type %T", tx)
	}
	return t, nil
}

// GetPerformance resolves a performance together with its hall bounds
// and play title.  It returns booking.ErrPerformanceNotFound when no
// such performance exists.
func (r *ReservationRepo) GetPerformance(ctx context.Context, id uint64) (*booking.PerformanceInfo, error) {
	const q = `SELECT pf.id, pl.title, h.id, h.name, h.seat_rows, h.seats_per_row, pf.show_time
	           FROM performances pf
	           JOIN plays pl ON pl.id = pf.play_id
	           JOIN halls h ON h.id = pf.hall_id
	           WHERE pf.id = ?`
	var info booking.PerformanceInfo
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&info.ID, &info.PlayTitle, &info.HallID, &info.HallName,
		&info.Rows, &info.SeatsPerRow, &info.ShowTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrPerformanceNotFound
		}
		return nil, err
	}
	return &info, nil
}

// SeatTaken reports whether a ticket already claims the given position,
// reading through the reservation transaction.
func (r *ReservationRepo) SeatTaken(ctx context.Context, tx booking.Tx, performanceID uint64, seat booking.SeatRef) (bool, error) {
	t, err := sqlTx(tx)
	if err != nil {
		return false, err
	}
	const q = `SELECT EXISTS(
	             SELECT 1 FROM tickets
	             WHERE performance_id = ? AND row_num = ? AND seat_num = ?)`
	var taken bool
	if err := t.QueryRowContext(ctx, q, performanceID, seat.Row, seat.Seat).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

// InsertReservation creates the reservation row for the user inside
// the transaction and returns it with ID and CreatedAt populated.
func (r *ReservationRepo) InsertReservation(ctx context.Context, tx booking.Tx, userID uint64) (*model.Reservation, error) {
	t, err := sqlTx(tx)
	if err != nil {
		return nil, err
	}
	res, err := t.ExecContext(ctx, `INSERT INTO reservations (user_id) VALUES (?)`, userID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	rec := &model.Reservation{ID: uint64(id), UserID: userID}
	// Read the row back so CreatedAt reflects the database default.
	err = t.QueryRowContext(ctx,
		`SELECT created_at FROM reservations WHERE id = ?`, rec.ID).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// InsertTicket creates one ticket row inside the transaction.  A
// duplicate-entry error from the unique seat key is returned as
// *booking.SeatTakenError for that seat; tickets are inserted one at a
// time, in request order, precisely so the violating seat is known.
func (r *ReservationRepo) InsertTicket(ctx context.Context, tx booking.Tx, reservationID, performanceID uint64, seat booking.SeatRef) (*model.Ticket, error) {
	t, err := sqlTx(tx)
	if err != nil {
		return nil, err
	}
	res, err := t.ExecContext(ctx,
		`INSERT INTO tickets (reservation_id, performance_id, row_num, seat_num) VALUES (?, ?, ?, ?)`,
		reservationID, performanceID, seat.Row, seat.Seat)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, &booking.SeatTakenError{Row: seat.Row, Seat: seat.Seat}
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Ticket{
		ID:            uint64(id),
		Row:           seat.Row,
		Seat:          seat.Seat,
		PerformanceID: performanceID,
		ReservationID: reservationID,
	}, nil
}

// ListByUser returns all reservations owned by userID with their
// tickets attached, newest first.  Tickets for the whole page are
// fetched in a single IN query and folded back onto their
// reservations.  When the user has no reservations an empty slice is
// returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, user_id, created_at FROM reservations
	           WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.CreatedAt); err != nil {
			return nil, err
		}
		res.Tickets = make([]model.Ticket, 0)
		index[res.ID] = len(out)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]interface{}, 0, len(out))
	placeholders := make([]string, 0, len(out))
	for _, res := range out {
		ids = append(ids, res.ID)
		placeholders = append(placeholders, "?")
	}
	tq := `SELECT id, reservation_id, performance_id, row_num, seat_num
	       FROM tickets
	       WHERE reservation_id IN (` + strings.Join(placeholders, ",") + `)
	       ORDER BY reservation_id, id`
	trows, err := r.db.QueryContext(ctx, tq, ids...)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t model.Ticket
		if err := trows.Scan(&t.ID, &t.ReservationID, &t.PerformanceID, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		if i, ok := index[t.ReservationID]; ok {
			out[i].Tickets = append(out[i].Tickets, t)
		}
	}
	return out, trows.Err()
}

// GetByIDForUser returns one reservation with tickets, restricted to
// the owning user.  A reservation that does not exist or belongs to a
// different user both surface as sql.ErrNoRows so the response never
// reveals other users' reservation IDs.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at FROM reservations WHERE id = ? AND user_id = ?`,
		reservationID, userID).Scan(&res.ID, &res.UserID, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	res.Tickets = make([]model.Ticket, 0)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, reservation_id, performance_id, row_num, seat_num
		 FROM tickets WHERE reservation_id = ? ORDER BY id`, res.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.ReservationID, &t.PerformanceID, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		res.Tickets = append(res.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteByIDForUser removes a reservation owned by userID; its tickets
// go with it through the FK cascade, freeing the seats.  It returns
// sql.ErrNoRows when the reservation does not exist and ErrForbidden
// when it belongs to someone else.
func (r *ReservationRepo) DeleteByIDForUser(ctx context.Context, reservationID, userID uint64) error {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM reservations WHERE id = ?`, reservationID).Scan(&ownerID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, reservationID)
	return err
}
