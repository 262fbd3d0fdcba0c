package domain

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// share any instant. Back-to-back intervals (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

func (s Showtime) Validate() error {
	if s.MovieID <= 0 {
		return errors.Wrap(ErrInvalidInput, "movieId must be a positive integer")
	}
	if s.Price <= 0 {
		return errors.Wrap(ErrInvalidInput, "price must be positive")
	}
	if s.Theater == "" {
		return errors.Wrap(ErrInvalidInput, "theater must not be empty")
	}
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return errors.Wrap(ErrInvalidInput, "startTime and endTime are required")
	}
	if !s.EndTime.After(s.StartTime) {
		return errors.Wrap(ErrInvalidInput, "end time must be after start time")
	}
	return nil
}

// ShowtimeUpdate carries a partial update; nil fields keep their current value.
type ShowtimeUpdate struct {
	MovieID   *int64     `json:"movieId"`
	Price     *float64   `json:"price"`
	Theater   *string    `json:"theater"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}

func (u ShowtimeUpdate) Apply(s Showtime) Showtime {
	if u.MovieID != nil {
		s.MovieID = *u.MovieID
	}
	if u.Price != nil {
		s.Price = *u.Price
	}
	if u.Theater != nil {
		s.Theater = *u.Theater
	}
	if u.StartTime != nil {
		s.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		s.EndTime = *u.EndTime
	}
	return s
}

// Reschedules reports whether the update touches the theater or the
// interval, i.e. whether the overlap check has to run again.
func (u ShowtimeUpdate) Reschedules() bool {
	return u.Theater != nil || u.StartTime != nil || u.EndTime != nil
}
