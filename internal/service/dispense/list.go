package dispense

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vendstack/barkeep/internal/domain"
)

// ListMachines builds the availability view of every active machine for
// catalog display. Telemetry for all machines is fetched concurrently with
// results kept in machine order; a machine that fails to answer is listed
// as offline and its untracked slots show as empty, via the same emptiness
// rules the dispense path uses. Nothing here mutates state.
func (s *Service) ListMachines(ctx context.Context) ([]MachineListing, error) {
	machines, err := s.machines.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}

	statuses := s.fetchStatuses(ctx, machines)

	slots, err := s.slots.ListWithItems(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	listings := make([]MachineListing, len(machines))
	for i, m := range machines {
		status := statuses[i]
		listing := MachineListing{
			ID:          m.ID,
			Name:        m.Name,
			DisplayName: m.DisplayName,
			Online:      status != nil,
			Slots:       []SlotListing{},
		}

		for j := range slots {
			slot := &slots[j]
			if slot.Machine != m.ID {
				continue
			}
			listing.Slots = append(listing.Slots, SlotListing{
				Machine: slot.Machine,
				Number:  slot.Number,
				Active:  slot.Active,
				Count:   slot.Count,
				Empty:   SlotEmpty(slot, status),
				Item: ListingItem{
					ID:    slot.ItemID,
					Name:  slot.ItemName,
					Price: slot.ItemPrice,
				},
			})
		}

		listings[i] = listing
	}

	return listings, nil
}

// fetchStatuses fetches telemetry for each machine concurrently, preserving
// order by index. Individual failures become nil entries (offline), never
// errors: a dead machine must not take the whole listing down.
func (s *Service) fetchStatuses(ctx context.Context, machines []domain.Machine) []*domain.MachineStatus {
	statuses := make([]*domain.MachineStatus, len(machines))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range machines {
		g.Go(func() error {
			status, err := s.device.Status(gctx, m.Name)
			if err != nil {
				s.log.DebugContext(gctx, "machine offline in listing",
					slog.String("machine", m.Name),
					slog.String("error", err.Error()),
				)
				return nil
			}
			statuses[i] = status
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	return statuses
}
