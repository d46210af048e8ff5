// Package rules holds pure business rules with no I/O. Keeping them out
// of the repository layer lets the service exercise them directly in
// tests and keeps the "missing" vs "not yours" distinction in one place.
package rules

import (
	"moviecatalog/internal/model"
	"moviecatalog/internal/repository"
)

// EnsureOwner permits or denies access to a movie for the given user.
// A nil movie fails with ErrMovieNotFound; a movie owned by someone else
// fails with ErrForbidden. The two-step distinction is deliberate so
// callers can log and meter the cases separately while handlers still
// map each to its own status code.
func EnsureOwner(movie *model.Movie, userID uint64) error {
	if movie == nil {
		return repository.ErrMovieNotFound
	}
	if movie.UserID != userID {
		return repository.ErrForbidden
	}
	return nil
}
