// Package machine implements the Machine repository using PostgreSQL.
// Machines are administered out of band; the repository is read-only.
package machine

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/vendstack/barkeep/internal/adapter/postgres"
	"github.com/vendstack/barkeep/internal/domain"
)

// Repo provides read access to vending machine records.
type Repo struct {
	db postgres.Querier
}

// New creates a new machine repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetByName returns the active machine with the given name.
// Inactive machines are not addressable and resolve to domain.ErrNotFound.
func (r *Repo) GetByName(ctx context.Context, name string) (*domain.Machine, error) {
	sql, args, err := postgres.Builder.
		Select("id", "name", "display_name", "active").
		From("machines").
		Where("active = true").
		Where("name = ?", name).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "machine")
	}

	var m domain.Machine
	if err := pgxscan.Get(ctx, r.db, &m, sql, args...); err != nil {
		return nil, postgres.MapError(err, "machine")
	}
	return &m, nil
}

// ListActive returns all active machines ordered by id.
func (r *Repo) ListActive(ctx context.Context) ([]domain.Machine, error) {
	return r.list(ctx, true)
}

// ListAll returns every machine, active or not, ordered by id.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Machine, error) {
	return r.list(ctx, false)
}

func (r *Repo) list(ctx context.Context, activeOnly bool) ([]domain.Machine, error) {
	q := postgres.Builder.
		Select("id", "name", "display_name", "active").
		From("machines").
		OrderBy("id ASC")
	if activeOnly {
		q = q.Where("active = true")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "machines")
	}

	var machines []domain.Machine
	if err := pgxscan.Select(ctx, r.db, &machines, sql, args...); err != nil {
		return nil, postgres.MapError(err, "machines")
	}
	return machines, nil
}
