package dispense

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vendstack/barkeep/internal/domain"
)

// Drop runs one dispense end to end. The steps run strictly in order:
//
//	resolve machine and slot → fetch telemetry → availability check →
//	fetch balance → price check → device drop command → debit balance →
//	reconcile slot count → append audit record
//
// Every failure before the drop command aborts with no side effects. The
// drop command is irreversible: from that point the caller is told the
// dispense succeeded even if the debit or reconciliation fails, and those
// failures are logged for out-of-band repair instead. Requests abandoned by
// the client after the command are also not aborted: the post-command
// steps run on a context detached from cancellation, so a dropped
// connection cannot produce an uncharged dispense.
func (s *Service) Drop(ctx context.Context, in DropInput) (*DropResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	log := s.log.With(
		slog.String("username", in.Username),
		slog.String("machine", in.Machine),
		slog.Int("slot", int(in.Slot)),
	)

	// Step 1: resolve machine and slot against the ledger.
	machine, err := s.machines.GetByName(ctx, in.Machine)
	if err != nil {
		log.WarnContext(ctx, "drop rejected: unknown machine")
		return nil, fmt.Errorf("machine '%s': %w", in.Machine, err)
	}

	slot, err := s.slots.GetWithItem(ctx, machine.ID, in.Slot)
	if err != nil {
		log.WarnContext(ctx, "drop rejected: unknown slot")
		return nil, fmt.Errorf("machine '%s' slot %d: %w", in.Machine, in.Slot, err)
	}

	// Step 2: live telemetry. An unreachable machine rejects the request
	// before anything is touched.
	status, err := s.device.Status(ctx, machine.Name)
	if err != nil {
		log.WarnContext(ctx, "drop rejected: machine offline", slog.String("error", err.Error()))
		return nil, fmt.Errorf("machine '%s' is not online: %w", in.Machine, domain.ErrMachineOffline)
	}

	// Step 3: availability. Ledger count wins over telemetry.
	if SlotEmpty(slot, status) {
		log.WarnContext(ctx, "drop rejected: slot empty")
		return nil, fmt.Errorf("machine '%s' slot %d: %w", in.Machine, in.Slot, domain.ErrSlotEmpty)
	}

	// Step 4: authorization. The balance cached at authentication time is
	// never trusted; fetch the live record.
	user, err := s.dir.GetUser(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("fetch user '%s': %w", in.Username, err)
	}
	if user == nil {
		log.WarnContext(ctx, "drop rejected: no directory account")
		return nil, fmt.Errorf("no account for username '%s': %w", in.Username, domain.ErrUnauthorized)
	}

	// Step 5: price check, strictly before the device is commanded. A drop
	// that cannot be charged must never be sent.
	balance := user.Balance()
	if balance < int64(slot.ItemPrice) {
		log.WarnContext(ctx, "drop rejected: insufficient balance",
			slog.Int64("balance", balance),
			slog.Int("price", int(slot.ItemPrice)),
		)
		return nil, fmt.Errorf("balance %d below price %d: %w", balance, slot.ItemPrice, domain.ErrInsufficientBalance)
	}

	// Step 6: the drop command. Irreversible once accepted. Connect
	// failures, timeouts, and machine-reported errors are surfaced
	// distinctly; none of them are billed.
	if err := s.device.Drop(ctx, machine.Name, slot.Number); err != nil {
		log.ErrorContext(ctx, "drop command failed", slog.String("error", err.Error()))
		return nil, err
	}

	// The item is out of the machine. Nothing below may be cancelled by the
	// caller going away, and nothing below may turn the response into a
	// failure.
	ctx = context.WithoutCancel(ctx)

	// Step 7: debit, addressed by the DN captured at fetch time.
	newBalance := balance - int64(slot.ItemPrice)
	change := domain.UserChangeSet{
		DN:           user.DN,
		DrinkBalance: &newBalance,
	}
	if err := s.dir.ModifyUser(ctx, change); err != nil {
		log.ErrorContext(ctx, "balance debit failed after dispense; directory is behind the ledger",
			slog.String("dn", user.DN),
			slog.Int64("new_balance", newBalance),
			slog.String("error", err.Error()),
		)
	}

	// Step 8: ledger reconciliation, only for machines tracking discrete
	// counts.
	if slot.Count != nil {
		newCount := *slot.Count - 1
		if err := s.slots.UpdateCount(ctx, machine.ID, slot.Number, newCount); err != nil {
			log.ErrorContext(ctx, "slot count update failed after dispense",
				slog.Int("new_count", int(newCount)),
				slog.String("error", err.Error()),
			)
		}
		if newCount == 0 {
			if err := s.slots.UpdateActive(ctx, machine.ID, slot.Number, false); err != nil {
				log.ErrorContext(ctx, "slot deactivation failed after dispense",
					slog.String("error", err.Error()),
				)
			}
		}
	}

	// Step 9: audit record, the source of truth for reconciliation.
	_, err = s.drops.Create(ctx, domain.DropEvent{
		Username:  in.Username,
		Machine:   machine.ID,
		Slot:      slot.Number,
		Item:      slot.ItemID,
		ItemName:  slot.ItemName,
		ItemPrice: slot.ItemPrice,
	})
	if err != nil {
		log.WarnContext(ctx, "drop audit record failed", slog.String("error", err.Error()))
	}

	log.InfoContext(ctx, "drop successful",
		slog.String("item", slot.ItemName),
		slog.Int64("new_balance", newBalance),
	)

	return &DropResult{
		Machine:    machine.Name,
		Slot:       slot.Number,
		ItemName:   slot.ItemName,
		ItemPrice:  slot.ItemPrice,
		NewBalance: newBalance,
	}, nil
}
