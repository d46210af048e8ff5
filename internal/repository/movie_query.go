package repository

import (
	"strings"
	"time"
)

// MovieQuery defines filters & pagination for listing a user's movies.
// Numeric and date bounds are pointers so that an absent filter adds no
// clause at all; a zero value coming from the client is a real bound,
// never a default.
type MovieQuery struct {
	Search            string
	MinDuration       *int
	MaxDuration       *int
	StartDate         *time.Time
	EndDate           *time.Time
	Genre             string
	MaxClassification *int
	Page              int
	Limit             int
}

// whereClause builds the conjunctive condition shared by the COUNT and
// page queries. The user scope is always the first clause; each optional
// filter contributes exactly one clause when present. Movie columns are
// referenced through the `m` alias.
func (q MovieQuery) whereClause(userID uint64) (string, []any) {
	where := []string{"m.user_id = ?"}
	args := []any{userID}

	if q.Search != "" {
		where = append(where, "LOWER(m.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Search)+"%")
	}
	if q.MinDuration != nil {
		where = append(where, "m.duration >= ?")
		args = append(args, *q.MinDuration)
	}
	if q.MaxDuration != nil {
		where = append(where, "m.duration <= ?")
		args = append(args, *q.MaxDuration)
	}
	if q.StartDate != nil {
		where = append(where, "m.release_date >= ?")
		args = append(args, *q.StartDate)
	}
	if q.EndDate != nil {
		where = append(where, "m.release_date <= ?")
		args = append(args, *q.EndDate)
	}
	if q.Genre != "" {
		where = append(where,
			"EXISTS (SELECT 1 FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id WHERE mg.movie_id = m.id AND LOWER(g.name) = ?)")
		args = append(args, strings.ToLower(q.Genre))
	}
	if q.MaxClassification != nil {
		where = append(where, "m.classification <= ?")
		args = append(args, *q.MaxClassification)
	}

	return strings.Join(where, " AND "), args
}

// offset returns the row offset for the configured page. Page and Limit
// are assumed normalized (>= 1) by the service layer.
func (q MovieQuery) offset() int {
	return (q.Page - 1) * q.Limit
}
