package domain

// SlotStatus is one slot's live stock signal as reported by a machine.
type SlotStatus struct {
	Number  int32 `json:"number"`
	Stocked bool  `json:"stocked"`
}

// MachineStatus is an ephemeral telemetry snapshot fetched straight from a
// machine. A snapshot existing at all means the machine answered, i.e. it
// is online. Never persisted.
type MachineStatus struct {
	Name  string       `json:"-"`
	Temp  float64      `json:"temp"`
	Slots []SlotStatus `json:"slots"`
}

// SlotStatus returns the status entry for the given slot number, or nil if
// the machine did not report that slot.
func (m *MachineStatus) SlotStatus(number int32) *SlotStatus {
	for i := range m.Slots {
		if m.Slots[i].Number == number {
			return &m.Slots[i]
		}
	}
	return nil
}
