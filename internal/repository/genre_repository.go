// Genres are global lookup tags shared by every user. The table is
// pre-seeded at startup and movies reference rows by id through the
// movie_genres join table; nothing in the API creates or deletes
// genres at runtime.
package repository

import (
	"context"
	"database/sql"

	"moviecatalog/internal/model"
)

// DefaultGenres is the seed set inserted on startup. Names match the
// catalog the web client was built against.
var DefaultGenres = []string{
	"Ação",
	"Aventura",
	"Animação",
	"Comédia",
	"Crime",
	"Documentário",
	"Drama",
	"Família",
	"Fantasia",
	"Ficção Científica",
	"Guerra",
	"Mistério",
	"Romance",
	"Suspense",
	"Terror",
}

type GenreRepo struct {
	db *sql.DB
}

func NewGenreRepo(db *sql.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

// ListAll returns every genre ordered by id. Used by the public
// GET /v1/genres endpoint that feeds the client's filter UI.
func (r *GenreRepo) ListAll(ctx context.Context) ([]model.Genre, error) {
	const q = `SELECT id, name FROM genres ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Seed inserts the given genre names, skipping ones that already
// exist. Safe to run on every startup.
func (r *GenreRepo) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := r.db.ExecContext(ctx,
			"INSERT IGNORE INTO genres (name) VALUES (?)", name); err != nil {
			return err
		}
	}
	return nil
}
