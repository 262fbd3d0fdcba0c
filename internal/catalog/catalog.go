package catalog

import (
	"context"

	"github.com/robertarktes/cinema-booking/internal/domain"
	"github.com/robertarktes/cinema-booking/internal/observability"
)

type Store interface {
	CreateMovie(ctx context.Context, m *domain.Movie) error
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	GetMovieByTitle(ctx context.Context, title string) (*domain.Movie, error)
	UpdateMovie(ctx context.Context, m domain.Movie) error
	DeleteMovieByTitle(ctx context.Context, title string) error
}

// Catalog manages movie records. Titles are unique; the schema constraint
// enforces it and the store reports a duplicate as domain.ErrConflict.
type Catalog struct {
	store  Store
	logger observability.Logger
}

func NewCatalog(store Store, logger observability.Logger) *Catalog {
	return &Catalog{store: store, logger: logger}
}

func (c *Catalog) Create(ctx context.Context, m domain.Movie) (*domain.Movie, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := c.store.CreateMovie(ctx, &m); err != nil {
		return nil, err
	}
	c.logger.WithField("movie_id", m.ID).Info("movie created")
	return &m, nil
}

func (c *Catalog) FindAll(ctx context.Context) ([]domain.Movie, error) {
	return c.store.ListMovies(ctx)
}

func (c *Catalog) FindByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	return c.store.GetMovieByTitle(ctx, title)
}

// Update merges the provided fields onto the movie identified by title and
// re-validates the merged record before persisting.
func (c *Catalog) Update(ctx context.Context, title string, upd domain.MovieUpdate) error {
	existing, err := c.store.GetMovieByTitle(ctx, title)
	if err != nil {
		return err
	}
	merged := upd.Apply(*existing)
	if err := merged.Validate(); err != nil {
		return err
	}
	return c.store.UpdateMovie(ctx, merged)
}

func (c *Catalog) Delete(ctx context.Context, title string) error {
	return c.store.DeleteMovieByTitle(ctx, title)
}
