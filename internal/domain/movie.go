package domain

import (
	"math"

	"github.com/cockroachdb/errors"
)

const (
	maxTitleLen    = 100
	maxGenreLen    = 50
	minReleaseYear = 1900
)

func (m Movie) Validate() error {
	if m.Title == "" || len(m.Title) > maxTitleLen {
		return errors.Wrapf(ErrInvalidInput, "title must be non-empty and at most %d characters", maxTitleLen)
	}
	if m.Genre == "" || len(m.Genre) > maxGenreLen {
		return errors.Wrapf(ErrInvalidInput, "genre must be non-empty and at most %d characters", maxGenreLen)
	}
	if m.Duration <= 0 {
		return errors.Wrap(ErrInvalidInput, "duration must be a positive number of minutes")
	}
	if m.Rating < 0 || m.Rating > 10 {
		return errors.Wrap(ErrInvalidInput, "rating must be between 0.0 and 10.0")
	}
	// ratings carry one fractional digit; rejecting here keeps the column's
	// NUMERIC(3,1) from silently rounding the stored value
	if math.Abs(m.Rating*10-math.Round(m.Rating*10)) > 1e-9 {
		return errors.Wrap(ErrInvalidInput, "rating must have at most one decimal place")
	}
	if m.ReleaseYear < minReleaseYear {
		return errors.Wrapf(ErrInvalidInput, "release year must be %d or later", minReleaseYear)
	}
	return nil
}

// MovieUpdate carries a partial update. Nil fields are left unchanged,
// which keeps "omitted" distinct from "explicitly set to zero".
type MovieUpdate struct {
	Title       *string  `json:"title"`
	Genre       *string  `json:"genre"`
	Duration    *int     `json:"duration"`
	Rating      *float64 `json:"rating"`
	ReleaseYear *int     `json:"releaseYear"`
}

func (u MovieUpdate) Apply(m Movie) Movie {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Genre != nil {
		m.Genre = *u.Genre
	}
	if u.Duration != nil {
		m.Duration = *u.Duration
	}
	if u.Rating != nil {
		m.Rating = *u.Rating
	}
	if u.ReleaseYear != nil {
		m.ReleaseYear = *u.ReleaseYear
	}
	return m
}
