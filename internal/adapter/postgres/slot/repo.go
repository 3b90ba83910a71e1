// Package slot implements the Slot repository using PostgreSQL. Slots are
// the only ledger records the dispense flow mutates, always one row at a
// time; no multi-statement transaction is assumed.
package slot

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/vendstack/barkeep/internal/adapter/postgres"
	"github.com/vendstack/barkeep/internal/domain"
)

const slotItemJoin = "slots INNER JOIN items ON slots.item = items.id"

// Repo provides slot persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new slot repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Get returns the slot with the given (machine, number) key.
func (r *Repo) Get(ctx context.Context, machineID, number int32) (*domain.Slot, error) {
	sql, args, err := postgres.Builder.
		Select("machine", "number", "item", "active", "count").
		From("slots").
		Where("machine = ?", machineID).
		Where("number = ?", number).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "slot")
	}

	var s domain.Slot
	if err := pgxscan.Get(ctx, r.db, &s, sql, args...); err != nil {
		return nil, postgres.MapError(err, "slot")
	}
	return &s, nil
}

// GetWithItem returns the slot with its assigned item joined in.
func (r *Repo) GetWithItem(ctx context.Context, machineID, number int32) (*domain.SlotWithItem, error) {
	sql, args, err := postgres.Builder.
		Select("machine", "number", "item", "active", "count", "id", "name", "price").
		From(slotItemJoin).
		Where("machine = ?", machineID).
		Where("number = ?", number).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "slot")
	}

	var s domain.SlotWithItem
	if err := pgxscan.Get(ctx, r.db, &s, sql, args...); err != nil {
		return nil, postgres.MapError(err, "slot")
	}
	return &s, nil
}

// ListWithItems returns slots joined with their items, ordered by (machine,
// number). With a nil machineID it covers every active machine; otherwise it
// is scoped to the one machine.
func (r *Repo) ListWithItems(ctx context.Context, machineID *int32) ([]domain.SlotWithItem, error) {
	q := postgres.Builder.
		Select("machine", "number", "item", "active", "count", "id", "name", "price").
		From(slotItemJoin).
		OrderBy("machine ASC", "number ASC")
	if machineID != nil {
		q = q.Where("machine = ?", *machineID)
	} else {
		q = q.Where("machine IN (SELECT id FROM machines WHERE active = true)")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "slots")
	}

	var slots []domain.SlotWithItem
	if err := pgxscan.Select(ctx, r.db, &slots, sql, args...); err != nil {
		return nil, postgres.MapError(err, "slots")
	}
	return slots, nil
}

// UpdateCount sets a slot's count to an explicit new value.
func (r *Repo) UpdateCount(ctx context.Context, machineID, number, newCount int32) error {
	return r.update(ctx, machineID, number, "count", newCount)
}

// UpdateActive flips a slot's active flag.
func (r *Repo) UpdateActive(ctx context.Context, machineID, number int32, active bool) error {
	return r.update(ctx, machineID, number, "active", active)
}

// UpdateItem reassigns the item stocked in a slot.
func (r *Repo) UpdateItem(ctx context.Context, machineID, number, itemID int32) error {
	return r.update(ctx, machineID, number, "item", itemID)
}

func (r *Repo) update(ctx context.Context, machineID, number int32, column string, value any) error {
	sql, args, err := postgres.Builder.
		Update("slots").
		Set(column, value).
		Where("machine = ?", machineID).
		Where("number = ?", number).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "slot")
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "slot")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("slot %d/%d: %w", machineID, number, domain.ErrNotFound)
	}
	return nil
}
