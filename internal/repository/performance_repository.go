package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/theatre-reservation/internal/model"
)

// ErrPerformanceNotFound is returned when a performance lookup fails.
var ErrPerformanceNotFound = errors.New("performance not found")

// PerformanceRepo provides CRUD operations for scheduled performances.
// A performance binds a play to a hall at a show time; its seat bounds
// are exactly the hall's bounds.
type PerformanceRepo struct {
	db *sql.DB
}

// NewPerformanceRepo constructs a PerformanceRepo with the given DB handle.
func NewPerformanceRepo(db *sql.DB) *PerformanceRepo { return &PerformanceRepo{db: db} }

// PerformanceSummary is the list-view shape for a performance with the
// play title and hall details joined in.
type PerformanceSummary struct {
	ID           uint64    `json:"id"`
	ShowTime     time.Time `json:"show_time"`
	PlayTitle    string    `json:"play_title"`
	HallName     string    `json:"theatre_hall_name"`
	HallCapacity uint64    `json:"theatre_hall_capacity"`
}

// PerformanceDetail is the detail-view shape with the full play and
// hall records embedded.
type PerformanceDetail struct {
	ID       uint64      `json:"id"`
	ShowTime time.Time   `json:"show_time"`
	Play     *PlayDetail `json:"play"`
	Hall     *model.Hall `json:"theatre_hall"`
}

// Create inserts a performance and populates its ID.  Referencing a
// missing play or hall surfaces as ErrConflict.
func (r *PerformanceRepo) Create(ctx context.Context, p *model.Performance) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO performances (play_id, hall_id, show_time) VALUES (?, ?, ?)`,
		p.PlayID, p.HallID, p.ShowTime.UTC())
	if err != nil {
		if isForeignKeyMissing(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID retrieves a bare performance row.  It returns
// ErrPerformanceNotFound when no row is found.
func (r *PerformanceRepo) GetByID(ctx context.Context, id uint64) (*model.Performance, error) {
	var p model.Performance
	err := r.db.QueryRowContext(ctx,
		`SELECT id, play_id, hall_id, show_time FROM performances WHERE id = ?`, id).
		Scan(&p.ID, &p.PlayID, &p.HallID, &p.ShowTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPerformanceNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns performance summaries ordered by show time, optionally
// filtered by play and by calendar day (UTC).  Nil filters are ignored.
func (r *PerformanceRepo) List(ctx context.Context, playID *uint64, day *time.Time) ([]PerformanceSummary, error) {
	q := `SELECT pf.id, pf.show_time, pl.title, h.name, h.seat_rows, h.seats_per_row
	      FROM performances pf
	      JOIN plays pl ON pl.id = pf.play_id
	      JOIN halls h ON h.id = pf.hall_id`
	args := make([]interface{}, 0, 3)
	where := ""
	if playID != nil {
		where = ` WHERE pf.play_id = ?`
		args = append(args, *playID)
	}
	if day != nil {
		start := day.UTC().Truncate(24 * time.Hour)
		if where == "" {
			where = ` WHERE pf.show_time >= ? AND pf.show_time < ?`
		} else {
			where += ` AND pf.show_time >= ? AND pf.show_time < ?`
		}
		args = append(args, start, start.Add(24*time.Hour))
	}
	q += where + ` ORDER BY pf.show_time, pf.id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PerformanceSummary, 0)
	for rows.Next() {
		var s PerformanceSummary
		var rowsCount, seatsPerRow uint32
		if err := rows.Scan(&s.ID, &s.ShowTime, &s.PlayTitle, &s.HallName, &rowsCount, &seatsPerRow); err != nil {
			return nil, err
		}
		s.HallCapacity = uint64(rowsCount) * uint64(seatsPerRow)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetDetail returns a performance with the full play and hall records
// embedded, for detail responses.
func (r *PerformanceRepo) GetDetail(ctx context.Context, id uint64, plays *PlayRepo, halls *HallRepo) (*PerformanceDetail, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	play, err := plays.GetDetail(ctx, p.PlayID)
	if err != nil {
		return nil, err
	}
	hall, err := halls.GetByID(ctx, p.HallID)
	if err != nil {
		return nil, err
	}
	return &PerformanceDetail{ID: p.ID, ShowTime: p.ShowTime, Play: play, Hall: hall}, nil
}

// Update reschedules a performance or moves it to another play/hall.
func (r *PerformanceRepo) Update(ctx context.Context, p *model.Performance) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE performances SET play_id = ?, hall_id = ?, show_time = ? WHERE id = ?`,
		p.PlayID, p.HallID, p.ShowTime.UTC(), p.ID)
	if err != nil {
		if isForeignKeyMissing(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a performance.  Performances with sold tickets
// surface as ErrConflict so committed reservations are never orphaned.
func (r *PerformanceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM performances WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyRestricted(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPerformanceNotFound
	}
	return nil
}
