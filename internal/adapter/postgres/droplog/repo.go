// Package droplog implements the append-only drop audit log using
// PostgreSQL. Records are never updated or deleted, and two identical drops
// are always two rows; the log is the source of truth for reconciling the
// ledger and the directory after partial failures.
package droplog

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/vendstack/barkeep/internal/adapter/postgres"
	"github.com/vendstack/barkeep/internal/domain"
)

// Repo provides drop-event persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new drop log repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create appends one drop event. The id and timestamp are assigned by the
// database; the caller's values for those fields are ignored.
func (r *Repo) Create(ctx context.Context, drop domain.DropEvent) (domain.DropEvent, error) {
	sql, args, err := postgres.Builder.
		Insert("drops").
		Columns("username", "machine", "slot", "item", "item_name", "item_price").
		Values(drop.Username, drop.Machine, drop.Slot, drop.Item, drop.ItemName, drop.ItemPrice).
		Suffix("RETURNING id, timestamp, username, machine, slot, item, item_name, item_price").
		ToSql()
	if err != nil {
		return domain.DropEvent{}, postgres.MapError(err, "drop")
	}

	var out domain.DropEvent
	if err := pgxscan.Get(ctx, r.db, &out, sql, args...); err != nil {
		return domain.DropEvent{}, postgres.MapError(err, "drop")
	}
	return out, nil
}

// ListRecent returns the newest drop events, most recent first.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]domain.DropEvent, error) {
	sql, args, err := postgres.Builder.
		Select("id", "timestamp", "username", "machine", "slot", "item", "item_name", "item_price").
		From("drops").
		OrderBy("timestamp DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "drops")
	}

	var drops []domain.DropEvent
	if err := pgxscan.Select(ctx, r.db, &drops, sql, args...); err != nil {
		return nil, postgres.MapError(err, "drops")
	}
	return drops, nil
}
