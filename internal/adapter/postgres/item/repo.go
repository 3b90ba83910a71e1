// Package item implements the Item repository using PostgreSQL.
package item

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/vendstack/barkeep/internal/adapter/postgres"
	"github.com/vendstack/barkeep/internal/domain"
)

// Repo provides item persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new item repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// List returns every item ordered by id.
func (r *Repo) List(ctx context.Context) ([]domain.Item, error) {
	sql, args, err := postgres.Builder.
		Select("id", "name", "price").
		From("items").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "items")
	}

	var items []domain.Item
	if err := pgxscan.Select(ctx, r.db, &items, sql, args...); err != nil {
		return nil, postgres.MapError(err, "items")
	}
	return items, nil
}

// Get returns the item with the given id.
func (r *Repo) Get(ctx context.Context, id int32) (*domain.Item, error) {
	sql, args, err := postgres.Builder.
		Select("id", "name", "price").
		From("items").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "item")
	}

	var it domain.Item
	if err := pgxscan.Get(ctx, r.db, &it, sql, args...); err != nil {
		return nil, postgres.MapError(err, "item")
	}
	return &it, nil
}

// Create inserts a new item and returns it with its assigned id.
func (r *Repo) Create(ctx context.Context, name string, price int32) (*domain.Item, error) {
	sql, args, err := postgres.Builder.
		Insert("items").
		Columns("name", "price").
		Values(name, price).
		Suffix("RETURNING id, name, price").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "item")
	}

	var it domain.Item
	if err := pgxscan.Get(ctx, r.db, &it, sql, args...); err != nil {
		return nil, postgres.MapError(err, "item")
	}
	return &it, nil
}

// UpdateName renames an item.
func (r *Repo) UpdateName(ctx context.Context, id int32, name string) error {
	return r.update(ctx, id, "name", name)
}

// UpdatePrice changes an item's price.
func (r *Repo) UpdatePrice(ctx context.Context, id int32, price int32) error {
	return r.update(ctx, id, "price", price)
}

// Delete removes an item. Deleting an item still assigned to a slot fails
// on the foreign key; callers reassign slots first.
func (r *Repo) Delete(ctx context.Context, id int32) error {
	sql, args, err := postgres.Builder.
		Delete("items").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "item")
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "item")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) update(ctx context.Context, id int32, column string, value any) error {
	sql, args, err := postgres.Builder.
		Update("items").
		Set(column, value).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "item")
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "item")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
