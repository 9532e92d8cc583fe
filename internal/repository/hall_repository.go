package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/theatre-reservation/internal/model"
)

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// HallRepo provides CRUD operations for theatre halls.  A hall's row
// and seats-per-row dimensions define the seat bounds for every
// performance scheduled in it; resizing a hall that already hosts
// performances is not supported.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

// Create inserts a hall and populates its ID.  Both dimensions must be
// positive; the caller validates that before reaching the repository.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO halls (name, seat_rows, seats_per_row) VALUES (?, ?, ?)`,
		h.Name, h.Rows, h.SeatsPerRow)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// GetByID retrieves a hall by its ID.  It returns ErrHallNotFound when
// no row is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	var h model.Hall
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, seat_rows, seats_per_row FROM halls WHERE id = ?`, id).
		Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsPerRow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns all halls ordered by ID.
func (r *HallRepo) List(ctx context.Context) ([]model.Hall, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, seat_rows, seats_per_row FROM halls ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Hall, 0)
	for rows.Next() {
		var h model.Hall
		if err := rows.Scan(&h.ID, &h.Name, &h.Rows, &h.SeatsPerRow); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Update renames a hall.  Seat dimensions are deliberately not
// touched here: tickets validated against the old bounds must stay
// valid, so only the name is mutable.
func (r *HallRepo) Update(ctx context.Context, h *model.Hall) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE halls SET name = ? WHERE id = ?`, h.Name, h.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, h.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a hall.  Halls with scheduled performances surface as
// ErrConflict.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM halls WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyRestricted(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHallNotFound
	}
	return nil
}
