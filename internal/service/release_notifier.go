package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"moviecatalog/internal/logger"
	"moviecatalog/internal/model"
	"moviecatalog/internal/queue"
)

// ReleaseFinder is the one store method the notifier depends on.
type ReleaseFinder interface {
	FindByReleaseDate(ctx context.Context, day time.Time) ([]model.Movie, error)
}

// ReleaseNotifier sweeps the catalog once a day and publishes one
// event per movie premiering that day. Broker failures are logged and
// skipped; the sweep itself never takes the process down.
type ReleaseNotifier struct {
	movies  ReleaseFinder
	publish func(ctx context.Context, ev queue.MovieReleasingEvent) error
	log     *logrus.Logger
}

func NewReleaseNotifier(movies ReleaseFinder) *ReleaseNotifier {
	return &ReleaseNotifier{
		movies:  movies,
		publish: queue.PublishMovieReleasing,
		log:     logger.Get(),
	}
}

// Run blocks until ctx is done, firing Sweep at every local midnight.
func (n *ReleaseNotifier) Run(ctx context.Context) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
			n.Sweep(ctx)
		}
	}
}

// Sweep finds every movie releasing today, across all owners, and
// publishes a movie.releasing event for each.
func (n *ReleaseNotifier) Sweep(ctx context.Context) {
	today := time.Now()
	movies, err := n.movies.FindByReleaseDate(ctx, today)
	if err != nil {
		n.log.WithError(err).Error("release sweep query failed")
		return
	}
	for _, m := range movies {
		ev := queue.MovieReleasingEvent{
			MovieID:     m.ID,
			UserID:      m.UserID,
			Title:       m.Title,
			ReleaseDate: m.ReleaseDate.Format("2006-01-02"),
			Genres:      m.Genres,
		}
		if err := n.publish(ctx, ev); err != nil {
			n.log.WithError(err).WithField("movie_id", m.ID).Warn("release event publish failed")
			continue
		}
		n.log.WithFields(logrus.Fields{"movie_id": m.ID, "title": m.Title}).Info("movie premiering today")
	}
}
