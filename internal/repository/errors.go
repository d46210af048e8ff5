// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current
// user is not the owner of a movie they are trying to read or
// mutate, while ErrGenreMissing signals that a movie referenced a
// genre id with no corresponding row.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a movie they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrMovieNotFound is returned when a movie id has no corresponding
// row. Handlers should translate this into an HTTP 404 response.
var ErrMovieNotFound = errors.New("movie not found")

// ErrGenreMissing is returned when a create or update references a
// genre id that does not exist. This is caller input, not a server
// fault, so handlers should translate it into an HTTP 400 response.
var ErrGenreMissing = errors.New("genre does not exist")

// ErrEmailExists is returned when registration hits the unique
// email constraint. Handlers should translate this into 409.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user id or email has no
// corresponding row.
var ErrUserNotFound = errors.New("user not found")
