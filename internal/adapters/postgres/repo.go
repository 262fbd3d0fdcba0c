package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robertarktes/cinema-booking/internal/domain"
	"github.com/robertarktes/cinema-booking/internal/observability"
)

// Postgres error codes the repository translates into domain errors.
const (
	serializationFailureCode = "40001"
	uniqueViolationCode      = "23505"
	foreignKeyViolationCode  = "23503"
	exclusionViolationCode   = "23P01"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// WithTx runs fn inside a serializable transaction. The overlap and
// seat-uniqueness checks are check-then-act sequences; the isolation level
// plus the schema constraints guarantee at most one winner when conflicting
// requests race.
func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	start := time.Now()
	defer func() {
		observability.DBTxDuration.Observe(time.Since(start).Seconds())
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "SET TRANSACTION ISOLATION LEVEL SERIALIZABLE")
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		return translate(err)
	}

	return translate(tx.Commit(ctx))
}

// translate maps constraint violations surfacing at write time onto the
// matching domain error so callers never see a raw storage failure for a
// lost race: a duplicate seat or an overlapping interval is a Conflict, a
// dangling foreign key is a NotFound.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case serializationFailureCode:
		return domain.ErrSerializationFailure
	case uniqueViolationCode, exclusionViolationCode:
		return domain.ErrConflict
	case foreignKeyViolationCode:
		return domain.ErrNotFound
	}
	return err
}

// isFKViolation is used by the delete paths, where a foreign-key failure
// means dependent rows still exist rather than a missing parent.
func isFKViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}
