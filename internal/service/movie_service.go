package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"

	"moviecatalog/internal/logger"
	"moviecatalog/internal/model"
	"moviecatalog/internal/repository"
	"moviecatalog/internal/rules"
	"moviecatalog/internal/storage"
)

// ErrPosterRequired is returned when a create arrives without an image
// file. A poster is mandatory and the check happens before any upload
// or database write.
var ErrPosterRequired = errors.New("poster image is required")

// MovieStore is the slice of the movie repository the catalog service
// depends on. *repository.MovieRepo satisfies it.
type MovieStore interface {
	Create(ctx context.Context, userID uint64, data repository.MovieData) (*model.Movie, error)
	FindByID(ctx context.Context, id uint64) (*model.Movie, error)
	FindAll(ctx context.Context, userID uint64, q repository.MovieQuery) ([]model.Movie, int64, error)
	Update(ctx context.Context, id uint64, upd repository.MovieUpdate) (*model.Movie, error)
	Delete(ctx context.Context, id uint64) error
}

// Pagination is the envelope metadata returned with every listing.
// Field names match what the web client renders.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// MoviePage wraps one page of movies plus its pagination metadata.
type MoviePage struct {
	Items      []model.Movie `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// MovieService orchestrates the movie store, the ownership rule and the
// upload collaborator into the public movie lifecycle. It holds no
// persistent state of its own.
type MovieService struct {
	movies   MovieStore
	uploader storage.Uploader
	log      *logrus.Logger
}

func NewMovieService(movies MovieStore, uploader storage.Uploader) *MovieService {
	return &MovieService{movies: movies, uploader: uploader, log: logger.Get()}
}

// Create uploads the poster first and only then inserts the movie, so a
// failed upload never leaves a movie row without its image. Any
// client-supplied image URL is replaced by the upload result.
func (s *MovieService) Create(ctx context.Context, userID uint64, data repository.MovieData, poster *storage.File) (*model.Movie, error) {
	if poster == nil {
		return nil, ErrPosterRequired
	}
	stored, err := s.uploader.Upload(ctx, *poster)
	if err != nil {
		return nil, err
	}
	data.ImageURL = stored.URL

	m, err := s.movies.Create(ctx, userID, data)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"movie_id": m.ID, "user_id": userID}).Info("movie created")
	return m, nil
}

// FindAll normalizes page/limit, runs the filtered query and wraps the
// result in the pagination envelope. TotalPages is never below 1, even
// for an empty result, so clients never render "page 0 of 0".
func (s *MovieService) FindAll(ctx context.Context, userID uint64, q repository.MovieQuery, page, limit string) (*MoviePage, error) {
	q.Page = atoiDefault(page, 1)
	q.Limit = atoiDefault(limit, 10)

	movies, total, err := s.movies.FindAll(ctx, userID, q)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return &MoviePage{
		Items: movies,
		Pagination: Pagination{
			Page:       q.Page,
			PerPage:    q.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// FindOne looks the movie up and applies the ownership rule. A movie
// that exists but belongs to someone else fails with ErrForbidden, not
// ErrMovieNotFound.
func (s *MovieService) FindOne(ctx context.Context, id, userID uint64) (*model.Movie, error) {
	m, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rules.EnsureOwner(m, userID); err != nil {
		s.log.WithFields(logrus.Fields{"movie_id": id, "user_id": userID}).Warn("access to foreign movie denied")
		return nil, err
	}
	return m, nil
}

// Update applies the ownership rule before delegating the partial
// update to the store.
func (s *MovieService) Update(ctx context.Context, id, userID uint64, upd repository.MovieUpdate) (*model.Movie, error) {
	m, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rules.EnsureOwner(m, userID); err != nil {
		s.log.WithFields(logrus.Fields{"movie_id": id, "user_id": userID}).Warn("update of foreign movie denied")
		return nil, err
	}
	updated, err := s.movies.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"movie_id": id, "user_id": userID}).Info("movie updated")
	return updated, nil
}

// Remove applies the ownership rule before deleting the movie and its
// genre associations.
func (s *MovieService) Remove(ctx context.Context, id, userID uint64) error {
	m, err := s.movies.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := rules.EnsureOwner(m, userID); err != nil {
		s.log.WithFields(logrus.Fields{"movie_id": id, "user_id": userID}).Warn("delete of foreign movie denied")
		return err
	}
	if err := s.movies.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"movie_id": id, "user_id": userID}).Info("movie deleted")
	return nil
}

// atoiDefault parses a positive integer, falling back to def for
// missing, malformed or non-positive input.
func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
