// This file contains the movie store: persistence of movie rows and
// their genre associations, plus the filtered, paginated listing used
// by the catalog. Every mutation that touches movie_genres runs inside
// a transaction so a concurrent reader never observes a half-replaced
// genre set or an orphaned join row.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"moviecatalog/internal/model"
)

type MovieRepo struct {
	db *sql.DB
}

func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// MovieData carries the column values for a create. Optional text
// columns are pointers so NULL survives the round trip.
type MovieData struct {
	Title          string
	Description    *string
	ReleaseDate    time.Time
	ImageURL       string
	Classification int
	Rating         int
	TrailerURL     *string
	Duration       int
	Revenue        float64
	Budget         float64
	Language       *string
	GenreIDs       []uint64
}

// MovieUpdate carries a partial update. A nil field leaves the column
// untouched. GenreIDs is a pointer to a slice on purpose: nil means
// "leave associations alone", a non-nil empty slice means "clear them".
type MovieUpdate struct {
	Title          *string
	Description    *string
	ReleaseDate    *time.Time
	Classification *int
	Rating         *int
	TrailerURL     *string
	Duration       *int
	Revenue        *float64
	Budget         *float64
	Language       *string
	GenreIDs       *[]uint64
}

// querier is satisfied by both *sql.DB and *sql.Tx so genre resolution
// can run inside or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const movieColumns = `m.id, m.user_id, m.title, m.description, m.release_date, m.image_url,
	m.classification, m.rating, m.trailer_url, m.duration, m.revenue, m.budget, m.language,
	m.created_at, m.updated_at`

// Create inserts a movie and its genre join rows in one transaction.
// A genre id with no matching row aborts the whole insert with
// ErrGenreMissing; no movie row is left behind.
func (r *MovieRepo) Create(ctx context.Context, userID uint64, data MovieData) (*model.Movie, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO movies
		 (user_id, title, description, release_date, image_url, classification, rating,
		  trailer_url, duration, revenue, budget, language)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		userID, data.Title, data.Description, data.ReleaseDate, data.ImageURL,
		data.Classification, data.Rating, data.TrailerURL, data.Duration,
		data.Revenue, data.Budget, data.Language)
	if err != nil {
		return nil, err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err = insertGenreLinks(ctx, tx, uint64(id), data.GenreIDs); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, uint64(id))
}

// FindByID returns one movie with genres resolved to names. Ownership is
// deliberately NOT checked here; the service applies the owner rule so
// that "missing" and "someone else's" stay distinguishable.
func (r *MovieRepo) FindByID(ctx context.Context, id uint64) (*model.Movie, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movies m WHERE m.id = ?", id)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	genres, err := loadGenres(ctx, r.db, []uint64{m.ID})
	if err != nil {
		return nil, err
	}
	m.Genres = genres[m.ID]
	if m.Genres == nil {
		m.Genres = []string{}
	}
	return m, nil
}

// FindAll returns one page of the user's movies plus the un-paginated
// total, both computed inside the same transaction so the count cannot
// drift from the page while writes interleave. Ordering is release date
// descending with id ascending as a tie-break, which keeps pagination
// deterministic across rows sharing a release date.
func (r *MovieRepo) FindAll(ctx context.Context, userID uint64, q MovieQuery) ([]model.Movie, int64, error) {
	cond, args := q.whereClause(userID)

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var total int64
	countSQL := `SELECT COUNT(*) FROM movies m WHERE ` + cond
	if err := tx.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := "SELECT " + movieColumns + ` FROM movies m
		WHERE ` + cond + `
		ORDER BY m.release_date DESC, m.id ASC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), q.Limit, q.offset())

	rows, err := tx.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Movie, 0, q.Limit)
	ids := make([]uint64, 0, q.Limit)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	genres, err := loadGenres(ctx, tx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].Genres = genres[out[i].ID]
		if out[i].Genres == nil {
			out[i].Genres = []string{}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update applies a partial update. Supplied columns change, omitted ones
// stay. When GenreIDs is non-nil the whole association set is replaced
// (delete-all-then-recreate) inside the same transaction as the row
// update, so readers never see a transiently empty set for a movie whose
// genres are merely being swapped.
func (r *MovieRepo) Update(ctx context.Context, id uint64, upd MovieUpdate) (*model.Movie, error) {
	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	appendSet := func(col string, v any) {
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	if upd.Title != nil {
		appendSet("title", *upd.Title)
	}
	if upd.Description != nil {
		appendSet("description", *upd.Description)
	}
	if upd.ReleaseDate != nil {
		appendSet("release_date", *upd.ReleaseDate)
	}
	if upd.Classification != nil {
		appendSet("classification", *upd.Classification)
	}
	if upd.Rating != nil {
		appendSet("rating", *upd.Rating)
	}
	if upd.TrailerURL != nil {
		appendSet("trailer_url", *upd.TrailerURL)
	}
	if upd.Duration != nil {
		appendSet("duration", *upd.Duration)
	}
	if upd.Revenue != nil {
		appendSet("revenue", *upd.Revenue)
	}
	if upd.Budget != nil {
		appendSet("budget", *upd.Budget)
	}
	if upd.Language != nil {
		appendSet("language", *upd.Language)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"UPDATE movies SET "+strings.Join(set, ", ")+" WHERE id = ?",
		append(args, id)...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op
		// update, so confirm existence explicitly.
		var exists uint64
		err = tx.QueryRowContext(ctx, "SELECT id FROM movies WHERE id = ?", id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrMovieNotFound
			return nil, err
		}
		if err != nil {
			return nil, err
		}
	}

	if upd.GenreIDs != nil {
		if _, err = tx.ExecContext(ctx, "DELETE FROM movie_genres WHERE movie_id = ?", id); err != nil {
			return nil, err
		}
		if err = insertGenreLinks(ctx, tx, id, *upd.GenreIDs); err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes the movie and its join rows as one atomic unit. Join
// rows go first to satisfy the foreign key.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM movie_genres WHERE movie_id = ?", id); err != nil {
		return err
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrMovieNotFound
		return err
	}
	return tx.Commit()
}

// FindByReleaseDate returns every movie, regardless of owner, whose
// release date falls on the same calendar day as the given time. The
// missing user scope is intentional: the daily release sweep notifies
// across the whole catalog and this method is never routed to end users.
func (r *MovieRepo) FindByReleaseDate(ctx context.Context, day time.Time) ([]model.Movie, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Millisecond)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+movieColumns+" FROM movies m WHERE m.release_date >= ? AND m.release_date <= ? ORDER BY m.id",
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Movie{}
	ids := []uint64{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	genres, err := loadGenres(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Genres = genres[out[i].ID]
		if out[i].Genres == nil {
			out[i].Genres = []string{}
		}
	}
	return out, nil
}

// insertGenreLinks creates one join row per distinct genre id. MySQL
// reports a missing parent row as error 1452, which is surfaced as
// ErrGenreMissing so handlers can answer 400 instead of 500.
func insertGenreLinks(ctx context.Context, tx *sql.Tx, movieID uint64, genreIDs []uint64) error {
	for _, gid := range dedupeGenreIDs(genreIDs) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO movie_genres (movie_id, genre_id) VALUES (?,?)", movieID, gid); err != nil {
			if strings.Contains(err.Error(), "1452") {
				return ErrGenreMissing
			}
			return err
		}
	}
	return nil
}

// dedupeGenreIDs drops repeated ids while keeping first-seen order. A
// request naming the same genre twice must yield exactly one join row;
// without this the second insert either duplicates the association or
// trips the join table's primary key.
func dedupeGenreIDs(ids []uint64) []uint64 {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// loadGenres resolves genre names for a set of movie ids in one query.
// Names come back ordered by genre id so the slice is deterministic.
func loadGenres(ctx context.Context, q querier, movieIDs []uint64) (map[uint64][]string, error) {
	if len(movieIDs) == 0 {
		return map[uint64][]string{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(movieIDs)), ",")
	args := make([]any, len(movieIDs))
	for i, id := range movieIDs {
		args[i] = id
	}
	rows, err := q.QueryContext(ctx, fmt.Sprintf(
		`SELECT mg.movie_id, g.name
		 FROM movie_genres mg
		 JOIN genres g ON g.id = mg.genre_id
		 WHERE mg.movie_id IN (%s)
		 ORDER BY mg.movie_id, g.id`, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[uint64][]string{}
	for rows.Next() {
		var movieID uint64
		var name string
		if err := rows.Scan(&movieID, &name); err != nil {
			return nil, err
		}
		out[movieID] = append(out[movieID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner lets scanMovie work with both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*model.Movie, error) {
	var m model.Movie
	var description, trailerURL, language sql.NullString
	err := row.Scan(&m.ID, &m.UserID, &m.Title, &description, &m.ReleaseDate, &m.ImageURL,
		&m.Classification, &m.Rating, &trailerURL, &m.Duration, &m.Revenue, &m.Budget,
		&language, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		m.Description = &description.String
	}
	if trailerURL.Valid {
		m.TrailerURL = &trailerURL.String
	}
	if language.Valid {
		m.Language = &language.String
	}
	return &m, nil
}
