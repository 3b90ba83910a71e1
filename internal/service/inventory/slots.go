package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vendstack/barkeep/internal/auth"
	"github.com/vendstack/barkeep/internal/domain"
)

// UpdateSlotInput is an administrative slot update. Machine and Number
// identify the slot; at least one of Active, ItemID, or Count must be set.
type UpdateSlotInput struct {
	Machine string
	Number  int32
	Active  *bool
	ItemID  *int32
	Count   *int32
}

func (in UpdateSlotInput) validate() error {
	var missing []string
	if in.Machine == "" {
		missing = append(missing, "machine")
	}
	if in.Number < 1 {
		missing = append(missing, "slot")
	}
	if len(missing) > 0 {
		return domain.NewMissingParamsError(missing...)
	}
	if in.Active == nil && in.ItemID == nil && in.Count == nil {
		return domain.NewValidationError("update", "either the state, item, or count of a slot must be provided")
	}
	if in.Count != nil && *in.Count < 0 {
		return domain.NewValidationError("count", "must be a non-negative integer")
	}
	return nil
}

// UpdateSlot applies an administrative change to a slot: flip its active
// flag, reassign its item (which must exist), or set its count. Each change
// is a single-row statement; a failure partway leaves earlier changes in
// place, which is acceptable for manual restocking operations. Returns the
// slot as it stands after all updates.
func (s *Service) UpdateSlot(ctx context.Context, caller *auth.Identity, in UpdateSlotInput) (*domain.Slot, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	machine, err := s.machines.GetByName(ctx, in.Machine)
	if err != nil {
		return nil, fmt.Errorf("machine '%s': %w", in.Machine, err)
	}

	slot, err := s.slots.Get(ctx, machine.ID, in.Number)
	if err != nil {
		return nil, fmt.Errorf("machine '%s' slot %d: %w", in.Machine, in.Number, err)
	}

	log := s.log.With(
		slog.String("admin", caller.Username),
		slog.String("machine", machine.Name),
		slog.Int("slot", int(slot.Number)),
	)

	if in.Active != nil {
		if err := s.slots.UpdateActive(ctx, machine.ID, slot.Number, *in.Active); err != nil {
			return nil, fmt.Errorf("update slot active: %w", err)
		}
		log.InfoContext(ctx, "slot active changed", slog.Bool("active", *in.Active))
	}

	if in.ItemID != nil {
		item, err := s.items.Get(ctx, *in.ItemID)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", *in.ItemID, err)
		}
		if err := s.slots.UpdateItem(ctx, machine.ID, slot.Number, item.ID); err != nil {
			return nil, fmt.Errorf("update slot item: %w", err)
		}
		log.InfoContext(ctx, "slot item changed", slog.Int("item", int(item.ID)))
	}

	if in.Count != nil {
		if err := s.slots.UpdateCount(ctx, machine.ID, slot.Number, *in.Count); err != nil {
			return nil, fmt.Errorf("update slot count: %w", err)
		}
		log.InfoContext(ctx, "slot count changed", slog.Int("count", int(*in.Count)))
	}

	updated, err := s.slots.Get(ctx, machine.ID, slot.Number)
	if err != nil {
		return nil, fmt.Errorf("refresh slot: %w", err)
	}
	return updated, nil
}
