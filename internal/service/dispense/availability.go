package dispense

import "github.com/vendstack/barkeep/internal/domain"

// SlotEmpty decides whether a slot can be dispensed from, merging the
// ledger's count with live telemetry. Precedence, first match wins:
//
//  1. count == 0: empty. The ledger is authoritative; telemetry claiming
//     the slot is stocked is stale.
//  2. count > 0: not empty, even if telemetry is missing or disagrees.
//  3. count untracked (nil): defer to telemetry for this slot number. If the
//     machine is unreachable or did not report the slot, treat it as empty;
//     refusing to dispense beats charging for nothing.
//
// status is nil when the machine could not be reached.
func SlotEmpty(slot *domain.SlotWithItem, status *domain.MachineStatus) bool {
	if slot.Count != nil {
		return *slot.Count == 0
	}

	if status == nil {
		return true
	}
	live := status.SlotStatus(slot.Number)
	if live == nil {
		return true
	}
	return !live.Stocked
}
