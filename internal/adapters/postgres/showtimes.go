package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/cinema-booking/internal/domain"
)

// CreateShowtime persists the showtime and records a showtime.scheduled
// outbox event in the same transaction. The exclusion constraint on
// (theater, interval) is the authoritative overlap guard; a violation comes
// back as domain.ErrConflict, a missing movie as domain.ErrNotFound.
func (r *Repository) CreateShowtime(ctx context.Context, s *domain.Showtime) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO showtimes (movie_id, price, theater, starts_at, ends_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, s.MovieID, s.Price, s.Theater, s.StartTime, s.EndTime).Scan(&s.ID)
		if err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]any{
			"showtime_id": s.ID,
			"theater":     s.Theater,
			"starts_at":   s.StartTime,
		})
		return r.InsertOutbox(ctx, tx, NewOutboxRecord("showtime", s.ID, "showtime.scheduled", payload))
	})
}

func (r *Repository) GetShowtime(ctx context.Context, id int64) (*domain.Showtime, error) {
	var s domain.Showtime
	var m domain.Movie
	err := r.pool.QueryRow(ctx, `
		SELECT s.id, s.movie_id, s.price, s.theater, s.starts_at, s.ends_at,
		       m.id, m.title, m.genre, m.duration_min, m.rating, m.release_year
		FROM showtimes s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.id = $1
	`, id).Scan(
		&s.ID, &s.MovieID, &s.Price, &s.Theater, &s.StartTime, &s.EndTime,
		&m.ID, &m.Title, &m.Genre, &m.Duration, &m.Rating, &m.ReleaseYear,
	)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Movie = &m
	return &s, nil
}

func (r *Repository) UpdateShowtime(ctx context.Context, s domain.Showtime) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			UPDATE showtimes
			SET movie_id = $2, price = $3, theater = $4, starts_at = $5, ends_at = $6
			WHERE id = $1
		`, s.ID, s.MovieID, s.Price, s.Theater, s.StartTime, s.EndTime)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// DeleteShowtime removes the row and enqueues a showtime.cancelled event.
// A foreign-key failure means bookings still reference the showtime; the
// cascade behavior is deliberately undefined, so the delete is refused.
func (r *Repository) DeleteShowtime(ctx context.Context, id int64) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `DELETE FROM showtimes WHERE id = $1`, id)
		if err != nil {
			if isFKViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		if result.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		payload, _ := json.Marshal(map[string]any{"showtime_id": id})
		return r.InsertOutbox(ctx, tx, NewOutboxRecord("showtime", id, "showtime.cancelled", payload))
	})
}

// HasOverlap reports whether any showtime in the theater intersects the
// half-open interval [start, end). excludeID removes one showtime from
// consideration so an update does not conflict with itself.
func (r *Repository) HasOverlap(ctx context.Context, theater string, start, end time.Time, excludeID *int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM showtimes
			WHERE theater = $1
			  AND starts_at < $3
			  AND ends_at > $2
			  AND ($4::bigint IS NULL OR id <> $4)
		)
	`, theater, start, end, excludeID).Scan(&exists)
	return exists, err
}
