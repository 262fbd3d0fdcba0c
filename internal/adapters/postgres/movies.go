package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/cinema-booking/internal/domain"
)

// CreateMovie inserts the movie inside an explicit transaction and fills in
// the generated id. A duplicate title surfaces as domain.ErrConflict.
func (r *Repository) CreateMovie(ctx context.Context, m *domain.Movie) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO movies (title, genre, duration_min, rating, release_year)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, m.Title, m.Genre, m.Duration, m.Rating, m.ReleaseYear).Scan(&m.ID)
	})
}

func (r *Repository) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, genre, duration_min, rating, release_year
		FROM movies ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []domain.Movie{}
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Genre, &m.Duration, &m.Rating, &m.ReleaseYear); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *Repository) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	return r.getMovie(ctx, `WHERE id = $1`, id)
}

func (r *Repository) GetMovieByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	return r.getMovie(ctx, `WHERE title = $1`, title)
}

func (r *Repository) getMovie(ctx context.Context, where string, arg any) (*domain.Movie, error) {
	var m domain.Movie
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, genre, duration_min, rating, release_year
		FROM movies `+where, arg).
		Scan(&m.ID, &m.Title, &m.Genre, &m.Duration, &m.Rating, &m.ReleaseYear)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) UpdateMovie(ctx context.Context, m domain.Movie) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			UPDATE movies
			SET title = $2, genre = $3, duration_min = $4, rating = $5, release_year = $6
			WHERE id = $1
		`, m.ID, m.Title, m.Genre, m.Duration, m.Rating, m.ReleaseYear)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) DeleteMovieByTitle(ctx context.Context, title string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE title = $1`, title)
	if err != nil {
		if isFKViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
