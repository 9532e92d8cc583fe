package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/theatre-reservation/internal/model"
)

// ErrPlayNotFound is returned when a play lookup fails.
var ErrPlayNotFound = errors.New("play not found")

// PlayRepo provides CRUD operations for plays and their genre/actor
// links.  Genre and actor references live in the play_genres and
// play_actors join tables and are rewritten as a whole on update.
type PlayRepo struct {
	db *sql.DB
}

// NewPlayRepo constructs a PlayRepo with the given DB handle.
func NewPlayRepo(db *sql.DB) *PlayRepo { return &PlayRepo{db: db} }

// PlaySummary is the list-view shape for a play: identifier and title
// only, matching the catalog's list serialization.
type PlaySummary struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// PlayDetail is the detail-view shape for a play with genres and
// actors resolved into full records.
type PlayDetail struct {
	ID          uint64        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Genres      []model.Genre `json:"genres"`
	Actors      []model.Actor `json:"actors"`
}

// Create inserts a play together with its genre and actor links inside
// one transaction.  Referencing a missing genre or actor fails the
// whole insert.
func (r *PlayRepo) Create(ctx context.Context, p *model.Play) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO plays (title, description) VALUES (?, ?)`,
		p.Title, p.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	if err := insertPlayLinks(ctx, tx, p.ID, p.GenreIDs, p.ActorIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// insertPlayLinks writes the join rows for a play's genres and actors.
// A reference to a missing genre or actor surfaces as ErrConflict.
func insertPlayLinks(ctx context.Context, tx *sql.Tx, playID uint64, genreIDs, actorIDs []uint64) error {
	for _, gid := range genreIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO play_genres (play_id, genre_id) VALUES (?, ?)`, playID, gid); err != nil {
			if isForeignKeyMissing(err) {
				return ErrConflict
			}
			return err
		}
	}
	for _, aid := range actorIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO play_actors (play_id, actor_id) VALUES (?, ?)`, playID, aid); err != nil {
			if isForeignKeyMissing(err) {
				return ErrConflict
			}
			return err
		}
	}
	return nil
}

// List returns play summaries, optionally filtered to plays carrying a
// given genre or actor.  Nil filters are ignored.
func (r *PlayRepo) List(ctx context.Context, genreID, actorID *uint64) ([]PlaySummary, error) {
	q := `SELECT DISTINCT p.id, p.title FROM plays p`
	args := make([]interface{}, 0, 2)
	if genreID != nil {
		q += ` JOIN play_genres pg ON pg.play_id = p.id AND pg.genre_id = ?`
		args = append(args, *genreID)
	}
	if actorID != nil {
		q += ` JOIN play_actors pa ON pa.play_id = p.id AND pa.actor_id = ?`
		args = append(args, *actorID)
	}
	q += ` ORDER BY p.id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PlaySummary, 0)
	for rows.Next() {
		var s PlaySummary
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetDetail returns a play with genres and actors resolved.  It
// returns ErrPlayNotFound when the play does not exist.
func (r *PlayRepo) GetDetail(ctx context.Context, id uint64) (*PlayDetail, error) {
	var d PlayDetail
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description FROM plays WHERE id = ?`, id).
		Scan(&d.ID, &d.Title, &d.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayNotFound
		}
		return nil, err
	}

	d.Genres = make([]model.Genre, 0)
	grows, err := r.db.QueryContext(ctx,
		`SELECT g.id, g.name FROM genres g
		 JOIN play_genres pg ON pg.genre_id = g.id
		 WHERE pg.play_id = ? ORDER BY g.id`, id)
	if err != nil {
		return nil, err
	}
	defer grows.Close()
	for grows.Next() {
		var g model.Genre
		if err := grows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		d.Genres = append(d.Genres, g)
	}
	if err := grows.Err(); err != nil {
		return nil, err
	}

	d.Actors = make([]model.Actor, 0)
	arows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.first_name, a.last_name FROM actors a
		 JOIN play_actors pa ON pa.actor_id = a.id
		 WHERE pa.play_id = ? ORDER BY a.id`, id)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var a model.Actor
		if err := arows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		d.Actors = append(d.Actors, a)
	}
	return &d, arows.Err()
}

// Update rewrites a play's fields and replaces its genre/actor links
// inside one transaction.
func (r *PlayRepo) Update(ctx context.Context, p *model.Play) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE plays SET title = ?, description = ? WHERE id = ?`,
		p.Title, p.Description, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM plays WHERE id = ?)`, p.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrPlayNotFound
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM play_genres WHERE play_id = ?`, p.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM play_actors WHERE play_id = ?`, p.ID); err != nil {
		return err
	}
	if err := insertPlayLinks(ctx, tx, p.ID, p.GenreIDs, p.ActorIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a play.  Plays with scheduled performances surface as
// ErrConflict; join rows are removed by cascade.
func (r *PlayRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plays WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyRestricted(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPlayNotFound
	}
	return nil
}
