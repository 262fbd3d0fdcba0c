// Package scheduling decides whether a showtime may occupy a theater. A
// showtime is created or rescheduled only when its interval does not
// intersect any other showtime in the same theater.
package scheduling

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/cinema-booking/internal/domain"
	"github.com/robertarktes/cinema-booking/internal/observability"
)

type ShowtimeStore interface {
	GetShowtime(ctx context.Context, id int64) (*domain.Showtime, error)
	CreateShowtime(ctx context.Context, s *domain.Showtime) error
	UpdateShowtime(ctx context.Context, s domain.Showtime) error
	DeleteShowtime(ctx context.Context, id int64) error
	HasOverlap(ctx context.Context, theater string, start, end time.Time, excludeID *int64) (bool, error)
}

type MovieGetter interface {
	GetMovie(ctx context.Context, id int64) (*domain.Movie, error)
}

type Scheduler struct {
	store  ShowtimeStore
	movies MovieGetter
	logger observability.Logger
}

func NewScheduler(store ShowtimeStore, movies MovieGetter, logger observability.Logger) *Scheduler {
	return &Scheduler{store: store, movies: movies, logger: logger}
}

// Create validates the showtime, verifies the movie exists, and rejects it
// if the theater is occupied during [StartTime, EndTime). The lookup and
// overlap query here are check-then-act; the store's serializable
// transaction and exclusion constraint decide the winner when two creates
// race past both checks.
func (s *Scheduler) Create(ctx context.Context, st domain.Showtime) (*domain.Showtime, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.movies.GetMovie(ctx, st.MovieID); err != nil {
		return nil, errors.Wrapf(err, "movie %d", st.MovieID)
	}
	overlap, err := s.store.HasOverlap(ctx, st.Theater, st.StartTime, st.EndTime, nil)
	if err != nil {
		return nil, err
	}
	if overlap {
		observability.OverlapRejections.Inc()
		return nil, errors.Wrapf(domain.ErrConflict, "theater %q is occupied during the requested time", st.Theater)
	}
	st.Movie = nil
	if err := s.store.CreateShowtime(ctx, &st); err != nil {
		return nil, err
	}
	s.logger.WithField("showtime_id", st.ID).Info("showtime scheduled")
	return &st, nil
}

// Update merges the provided fields onto the stored showtime and
// re-validates the result. The overlap check runs again, excluding the
// showtime itself, only when the theater or the interval changed.
func (s *Scheduler) Update(ctx context.Context, id int64, upd domain.ShowtimeUpdate) (*domain.Showtime, error) {
	existing, err := s.store.GetShowtime(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := upd.Apply(*existing)
	merged.Movie = nil
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if upd.MovieID != nil {
		if _, err := s.movies.GetMovie(ctx, merged.MovieID); err != nil {
			return nil, errors.Wrapf(err, "movie %d", merged.MovieID)
		}
	}
	if upd.Reschedules() {
		overlap, err := s.store.HasOverlap(ctx, merged.Theater, merged.StartTime, merged.EndTime, &id)
		if err != nil {
			return nil, err
		}
		if overlap {
			observability.OverlapRejections.Inc()
			return nil, errors.Wrapf(domain.ErrConflict, "theater %q is occupied during the requested time", merged.Theater)
		}
	}
	if err := s.store.UpdateShowtime(ctx, merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *Scheduler) Remove(ctx context.Context, id int64) error {
	return s.store.DeleteShowtime(ctx, id)
}

// FindOne returns the showtime with its movie embedded.
func (s *Scheduler) FindOne(ctx context.Context, id int64) (*domain.Showtime, error) {
	return s.store.GetShowtime(ctx, id)
}
